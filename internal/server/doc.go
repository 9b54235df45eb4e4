// Package server provides HTTP routing, middleware, and handlers for the tastemaker relay.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. Middleware wraps the
// method check, so CORS preflight requests are answered before a route rejects OPTIONS.
//
// # Middleware
//
//   - [RequestID] : Reuses or generates an X-Request-ID
//   - [Logging] : Request-scoped child logger, one line per request
//   - [Recover] : Panics become 500 responses
//   - [CORS] : Allow-list (or "*") from server.allowed_origins
//
// # OAuth Handler
//
// [OAuthHandler] owns /login and /callback. Login stores a random state in a short-lived cookie and redirects to
// the provider. The callback checks state when that cookie is present, then exchanges the code. Tokens are
// returned as JSON, or handed to server.frontend_url in the URL fragment when one is configured.
//
// # Routes
//
//	GET  /health             liveness
//	GET  /login              start authorization code flow
//	GET  /callback           finish authorization code flow
//	POST /refresh            refresh token grant
//	GET  /spotify-auth       client credentials grant
//	GET  /me                 profile pass-through (Authorization required)
//	GET  /liked-songs        saved tracks (Authorization required)
//	POST /generate-playlist  recommendations, or the full playlist pipeline
//
// # Errors
//
// Handlers report failures through [StatusFor]: client input errors map to 400/401 and carry the sentinel text,
// upstream failures map to 500 with a generic per-route message. The wrapped detail is logged only.
package server
