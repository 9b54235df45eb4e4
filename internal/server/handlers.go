package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/tastemaker/internal/models"
	"github.com/desertthunder/tastemaker/internal/shared"
)

const maxBodyBytes = 1 << 20

// generateRequest accepts both shapes of /generate-playlist. Tracks alone asks for recommendations only;
// likedSongs with a token runs the full pipeline.
type generateRequest struct {
	Tracks      []models.Track `json:"tracks"`
	LikedSongs  []models.Track `json:"likedSongs"`
	AccessToken string         `json:"accessToken"`
}

type recommendationsResponse struct {
	Recommendations []models.Track `json:"recommendations"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

func bearer(r *http.Request) string {
	return shared.BearerToken(r.Header.Get("Authorization"))
}

// Health reports liveness.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SpotifyAuth returns an app-only token from the client-credentials grant.
func (s *Server) SpotifyAuth(w http.ResponseWriter, r *http.Request) {
	token, err := s.auth.ClientCredentials(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to authenticate with Spotify")
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// Refresh trades a refresh token for a new access token.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err, "Invalid request body")
		return
	}

	token, err := s.auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err, "Failed to refresh token")
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// Me passes the provider profile through unchanged.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	token := bearer(r)
	if token == "" {
		writeError(w, r, shared.ErrMissingToken, "Missing access token")
		return
	}

	user, err := s.catalog.CurrentUser(r.Context(), token)
	if err != nil {
		writeError(w, r, err, "Failed to fetch user profile")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(user.Raw)
}

// LikedSongs returns the first page of the user's saved tracks. An optional limit query overrides the default.
func (s *Server) LikedSongs(w http.ResponseWriter, r *http.Request) {
	token := bearer(r)
	if token == "" {
		writeError(w, r, shared.ErrMissingToken, "Missing access token")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, fmt.Errorf("%w: limit %q", shared.ErrInvalidInput, raw), "Invalid limit")
			return
		}
		limit = n
	}

	tracks, err := s.catalog.LikedTracks(r.Context(), token, limit)
	if err != nil {
		writeError(w, r, err, "Failed to fetch liked songs")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// GeneratePlaylist returns recommendations for {tracks}, or builds a playlist for {likedSongs, accessToken}.
//
// The token may come from the body or the Authorization header. With a token but no likedSongs, tracks seed
// the playlist instead.
func (s *Server) GeneratePlaylist(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err, "Invalid request body")
		return
	}

	if len(req.LikedSongs) == 0 && req.AccessToken == "" {
		recs, err := s.engine.Recommend(r.Context(), nil, req.Tracks)
		if err != nil {
			writeError(w, r, err, "Failed to generate playlist")
			return
		}
		writeJSON(w, http.StatusOK, recommendationsResponse{Recommendations: recs})
		return
	}

	token := req.AccessToken
	if token == "" {
		token = bearer(r)
	}

	seeds := req.LikedSongs
	if len(seeds) == 0 {
		seeds = req.Tracks
	}

	result, err := s.engine.GenerateFromLiked(r.Context(), nil, token, seeds)
	if err != nil {
		writeError(w, r, err, "Failed to generate playlist")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
