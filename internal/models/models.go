// package models defines the request-scoped data model shared by services, tasks and the HTTP layer
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Track is a song descriptor. Tracks read from the catalog carry an ID and URI; tracks parsed from
// completion text carry neither until a search resolves them.
type Track struct {
	Name   string `json:"name"`
	Artist string `json:"artist,omitempty"`
	ID     string `json:"id,omitempty"`
	URI    string `json:"uri,omitempty"`
}

// Descriptor renders the track as "name by artist", or just the name when the artist is unknown.
func (t Track) Descriptor() string {
	if t.Artist == "" {
		return t.Name
	}
	return fmt.Sprintf("%s by %s", t.Name, t.Artist)
}

// SearchQuery renders the catalog search query for the track.
func (t Track) SearchQuery() string {
	return strings.TrimSpace(t.Name + " " + t.Artist)
}

// UnmarshalJSON accepts either a track object or a bare string, which becomes the track name.
func (t *Track) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Track{Name: strings.TrimSpace(s)}
		return nil
	}

	type plain Track
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Track(p)
	return nil
}

// Playlist is a playlist created on the provider side.
type Playlist struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	URI string `json:"uri,omitempty"`
}

// ResolvedTrack pairs a recommended track with the catalog track its search returned.
type ResolvedTrack struct {
	Requested Track   `json:"requested"`
	Matched   Track   `json:"matched"`
	Score     float64 `json:"score"`
}

// PlaylistResult is the outcome of materializing recommendations into a playlist.
//
// Added preserves recommendation order. Unresolved lists recommendations whose search returned
// nothing usable; they are reported instead of silently dropped.
type PlaylistResult struct {
	PlaylistID  string          `json:"playlistId"`
	PlaylistURL string          `json:"playlistUrl"`
	Added       []ResolvedTrack `json:"added"`
	Unresolved  []Track         `json:"unresolved"`
}

// URIs returns the matched track URIs in order.
func (r *PlaylistResult) URIs() []string {
	uris := make([]string, 0, len(r.Added))
	for _, a := range r.Added {
		uris = append(uris, a.Matched.URI)
	}
	return uris
}

// TokenPayload is the provider's token response.
type TokenPayload struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// UserProfile is the subset of the provider user profile the pipeline needs.
// Raw keeps the provider's body so it can be passed through unchanged.
type UserProfile struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	Raw         json.RawMessage `json:"-"`
}
