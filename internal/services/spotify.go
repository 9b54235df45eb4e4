// Spotify accounts + Web API implementation of [Authenticator] and [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tastemaker/internal/models"
	"github.com/desertthunder/tastemaker/internal/shared"
	"github.com/samber/lo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// Saved tracks endpoint page size ceiling
	maxLikedLimit = 50
	// Playlist items endpoint batch ceiling
	maxAddBatch = 100
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"` // premium, free, etc.
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyPaginatedTracks represents a paginated response of saved tracks.
type SpotifyPaginatedTracks struct {
	Items    []SpotifySavedTrack `json:"items"`
	Total    int                 `json:"total"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
	Next     *string             `json:"next"`
	Previous *string             `json:"previous"`
}

// SpotifySavedTrack represents a track saved in the user's library.
type SpotifySavedTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPlaylist represents the playlist object returned on creation.
type SpotifyPlaylist struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// SpotifySearchResponse represents the track page of a search response.
type SpotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

func (t SpotifyTrack) toModel() models.Track {
	track := models.Track{ID: t.ID, Name: t.Name, URI: t.URI}
	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}
	return track
}

// SpotifyService implements [Authenticator] and [Catalog] against Spotify.
//
// It holds no user tokens: every catalog call takes the caller's bearer token, so one instance serves all requests.
type SpotifyService struct {
	config     *oauth2.Config
	app        *clientcredentials.Config
	httpClient *http.Client
	apiURL     string
	likedLimit int
}

// NewSpotifyService creates a Spotify service from the credentials and endpoints in conf.
//
// A nil client uses [http.DefaultClient].
func NewSpotifyService(conf *shared.Config, client *http.Client) (*SpotifyService, error) {
	creds := conf.Credentials.Spotify
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrMissingCredentials)
	}
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := oauth2.Endpoint{
		AuthURL:   conf.Spotify.AuthURL,
		TokenURL:  conf.Spotify.TokenURL,
		AuthStyle: oauth2.AuthStyleInHeader,
	}

	return &SpotifyService{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       conf.Spotify.Scopes,
			Endpoint:     endpoint,
		},
		app: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     conf.Spotify.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: client,
		apiURL:     strings.TrimRight(conf.Spotify.APIURL, "/"),
		likedLimit: conf.Spotify.LikedLimit,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// LoginURL returns the authorization URL for user login.
func (s *SpotifyService) LoginURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// oauthContext routes the oauth2 token requests through the service's client.
func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// ClientCredentials runs the client-credentials grant.
func (s *SpotifyService) ClientCredentials(ctx context.Context) (*models.TokenPayload, error) {
	token, err := s.app.Token(s.oauthContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: client credentials: %v", shared.ErrUpstreamAuth, err)
	}
	return tokenPayload(token), nil
}

// ExchangeCode trades an authorization code for tokens in a single request to the token endpoint.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (*models.TokenPayload, error) {
	if code == "" {
		return nil, shared.ErrMissingCode
	}

	token, err := s.config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", shared.ErrUpstreamAuth, err)
	}
	return tokenPayload(token), nil
}

// RefreshToken trades a refresh token for a new access token.
// The provider may omit a new refresh token, in which case the old one is returned.
func (s *SpotifyService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPayload, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh_token", shared.ErrInvalidInput)
	}

	src := s.config.TokenSource(s.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token: %v", shared.ErrUpstreamAuth, err)
	}
	return tokenPayload(token), nil
}

func tokenPayload(t *oauth2.Token) *models.TokenPayload {
	p := &models.TokenPayload{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
		RefreshToken: t.RefreshToken,
	}
	if p.ExpiresIn == 0 && !t.Expiry.IsZero() {
		p.ExpiresIn = int64(time.Until(t.Expiry).Round(time.Second).Seconds())
	}
	if scope, ok := t.Extra("scope").(string); ok {
		p.Scope = scope
	}
	return p
}

// doRequest performs an authenticated request to the Web API.
//
// A nil body sends no payload; a non-nil body is JSON-encoded. Transport failures and non-2xx responses wrap
// [shared.ErrUpstreamFetch].
func (s *SpotifyService) doRequest(ctx context.Context, token, method, endpoint string, body, result any) error {
	if token == "" {
		return shared.ErrMissingToken
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.apiURL+endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrUpstreamFetch, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: spotify API error: status %d", shared.ErrUpstreamFetch, method, endpoint, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrUpstreamFetch, err)
		}
	}

	return nil
}

// CurrentUser retrieves the profile of the token's owner, keeping the raw body for pass-through.
func (s *SpotifyService) CurrentUser(ctx context.Context, token string) (*models.UserProfile, error) {
	var raw json.RawMessage
	if err := s.doRequest(ctx, token, http.MethodGet, "/me", nil, &raw); err != nil {
		return nil, err
	}

	var user SpotifyUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode profile: %v", shared.ErrUpstreamFetch, err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: profile has no id", shared.ErrUpstreamFetch)
	}

	return &models.UserProfile{ID: user.ID, DisplayName: user.DisplayName, Raw: raw}, nil
}

// SavedTracks retrieves one page of the user's saved tracks.
func (s *SpotifyService) SavedTracks(ctx context.Context, token string, limit, offset int) (*SpotifyPaginatedTracks, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxLikedLimit {
		limit = maxLikedLimit
	}

	endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", limit, offset)

	var response SpotifyPaginatedTracks
	if err := s.doRequest(ctx, token, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// LikedTracks returns the first page of saved tracks in library order.
// A non-positive limit uses the configured default; the page size is capped by the provider.
func (s *SpotifyService) LikedTracks(ctx context.Context, token string, limit int) ([]models.Track, error) {
	if limit <= 0 {
		limit = s.likedLimit
	}

	page, err := s.SavedTracks(ctx, token, limit, 0)
	if err != nil {
		return nil, err
	}

	return lo.Map(page.Items, func(item SpotifySavedTrack, _ int) models.Track {
		return item.Track.toModel()
	}), nil
}

// CreatePlaylist creates an empty playlist owned by userID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, token, userID string, opts PlaylistOpts) (*models.Playlist, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", shared.ErrInvalidInput)
	}

	body := map[string]any{
		"name":        opts.Name,
		"description": opts.Description,
		"public":      opts.Public,
	}
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))

	var created SpotifyPlaylist
	if err := s.doRequest(ctx, token, http.MethodPost, endpoint, body, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("%w: created playlist has no id", shared.ErrUpstreamFetch)
	}

	return &models.Playlist{ID: created.ID, URL: created.ExternalURLs["spotify"], URI: created.URI}, nil
}

// SearchTrack returns the first track matching query, or nil when the search has no results.
func (s *SpotifyService) SearchTrack(ctx context.Context, token, query string) (*models.Track, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(1))

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, token, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, nil
	}

	track := response.Tracks.Items[0].toModel()
	return &track, nil
}

// AddTracks appends URIs to a playlist in batches the provider accepts. An empty set makes no request.
func (s *SpotifyService) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for _, batch := range lo.Chunk(uris, maxAddBatch) {
		body := map[string]any{"uris": batch}
		if err := s.doRequest(ctx, token, http.MethodPost, endpoint, body, nil); err != nil {
			return err
		}
	}
	return nil
}

// UnfollowPlaylist removes the playlist from the user's library, which is how the provider deletes one.
func (s *SpotifyService) UnfollowPlaylist(ctx context.Context, token, playlistID string) error {
	endpoint := fmt.Sprintf("/playlists/%s/followers", url.PathEscape(playlistID))
	return s.doRequest(ctx, token, http.MethodDelete, endpoint, nil, nil)
}
