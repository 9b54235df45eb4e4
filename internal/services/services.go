// package services defines the upstream collaborators of the relay
//
// Spotify (accounts + Web API), OpenAI-compatible chat completions
package services

import (
	"context"

	"github.com/desertthunder/tastemaker/internal/models"
)

// Authenticator performs OAuth exchanges with the identity provider.
type Authenticator interface {
	// LoginURL builds the provider authorize URL for the configured scopes. No I/O.
	LoginURL(state string) string

	// ClientCredentials runs the client-credentials grant for app-only access.
	ClientCredentials(ctx context.Context) (*models.TokenPayload, error)

	// ExchangeCode trades a one-time authorization code for access and refresh tokens.
	ExchangeCode(ctx context.Context, code string) (*models.TokenPayload, error)

	// RefreshToken trades a refresh token for a new access token.
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPayload, error)
}

// Catalog reads from and writes to the user's library with a caller-supplied bearer token.
type Catalog interface {
	// CurrentUser returns the profile the token belongs to.
	CurrentUser(ctx context.Context, token string) (*models.UserProfile, error)

	// LikedTracks returns the first page of the user's saved tracks, in library order.
	LikedTracks(ctx context.Context, token string, limit int) ([]models.Track, error)

	// CreatePlaylist creates an empty playlist owned by userID.
	CreatePlaylist(ctx context.Context, token, userID string, opts PlaylistOpts) (*models.Playlist, error)

	// SearchTrack returns the first catalog match for query, or nil when there is none.
	SearchTrack(ctx context.Context, token, query string) (*models.Track, error)

	// AddTracks appends URIs to a playlist in order.
	AddTracks(ctx context.Context, token, playlistID string, uris []string) error

	// UnfollowPlaylist removes a playlist from the user's library.
	UnfollowPlaylist(ctx context.Context, token, playlistID string) error
}

// Recommender asks a completion model for tracks similar to a prompt.
type Recommender interface {
	Recommend(ctx context.Context, prompt string) ([]models.Track, error)
}

// PlaylistOpts describes a playlist to create.
type PlaylistOpts struct {
	Name        string
	Description string
	Public      bool
}
