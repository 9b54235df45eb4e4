package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/tastemaker/internal/services"
	"github.com/desertthunder/tastemaker/internal/shared"
)

const (
	stateCookie = "tastemaker_oauth_state"
	stateMaxAge = 600
)

// OAuthHandler handles the authorization code flow: /login starts it and /callback completes it.
// Implements the Handler interface for registration with a Router.
type OAuthHandler struct {
	auth        services.Authenticator
	frontendURL string
}

// NewOAuthHandler creates a new OAuth handler. When frontendURL is set, a successful callback redirects there
// with the tokens in the URL fragment instead of returning them as JSON.
func NewOAuthHandler(auth services.Authenticator, frontendURL string) *OAuthHandler {
	return &OAuthHandler{auth: auth, frontendURL: frontendURL}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/login", "/callback"}
}

// ServeHTTP dispatches to the login or callback step.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
		return
	}

	switch r.URL.Path {
	case "/login":
		h.login(w, r)
	case "/callback":
		h.callback(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login stores a random state in a short-lived cookie and redirects to the provider.
func (h *OAuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   stateMaxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.auth.LoginURL(state), http.StatusFound)
}

// callback validates state when a state cookie exists, then exchanges the code for tokens.
//
// Requests without the cookie skip the state check so callers that started the flow elsewhere still work.
func (h *OAuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if cookie, err := r.Cookie(stateCookie); err == nil {
		http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/", MaxAge: -1, HttpOnly: true})
		if q.Get("state") != cookie.Value {
			writeError(w, r, shared.ErrInvalidState, "Invalid state parameter")
			return
		}
	}

	code := q.Get("code")
	if code == "" {
		err := shared.ErrMissingCode
		if errParam := q.Get("error"); errParam != "" {
			err = fmt.Errorf("%w: authorization failed: %s", shared.ErrMissingCode, errParam)
		}
		writeError(w, r, err, "Missing authorization code")
		return
	}

	token, err := h.auth.ExchangeCode(r.Context(), code)
	if err != nil {
		writeError(w, r, err, "Failed to authenticate with Spotify")
		return
	}

	if h.frontendURL == "" {
		writeJSON(w, http.StatusOK, token)
		return
	}

	fragment := url.Values{}
	fragment.Set("access_token", token.AccessToken)
	fragment.Set("token_type", token.TokenType)
	fragment.Set("expires_in", strconv.FormatInt(token.ExpiresIn, 10))
	if token.RefreshToken != "" {
		fragment.Set("refresh_token", token.RefreshToken)
	}

	http.Redirect(w, r, h.frontendURL+"#"+fragment.Encode(), http.StatusFound)
}
