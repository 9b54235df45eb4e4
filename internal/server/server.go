// package server contains middleware & handlers for the tastemaker relay
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tastemaker/internal/services"
	"github.com/desertthunder/tastemaker/internal/shared"
	"github.com/desertthunder/tastemaker/internal/tasks"
)

const shutdownTimeout = 10 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own more than one route.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Opts holds the collaborators of a [Server].
type Opts struct {
	Config  *shared.Config
	Auth    services.Authenticator
	Catalog services.Catalog
	Engine  tasks.Generator
	Logger  *log.Logger
}

// Server is the HTTP relay. It holds only read-only configuration and stateless collaborators,
// so requests never share mutable state.
type Server struct {
	conf    *shared.Config
	auth    services.Authenticator
	catalog services.Catalog
	engine  tasks.Generator
	logger  *log.Logger
	router  *BasicRouter
}

// New creates a [Server] and registers its routes.
func New(opts Opts) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		conf:    opts.Config,
		auth:    opts.Auth,
		catalog: opts.Catalog,
		engine:  opts.Engine,
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *BasicRouter {
	r := NewBasicRouter()
	r.Use(RequestID(), Logging(s.logger), Recover(), CORS(s.conf.Server.AllowedOrigins))

	r.HandleFunc(http.MethodGet, "/health", s.Health)
	r.HandleFunc(http.MethodGet, "/spotify-auth", s.SpotifyAuth)
	r.HandleFunc(http.MethodPost, "/refresh", s.Refresh)
	r.HandleFunc(http.MethodGet, "/me", s.Me)
	r.HandleFunc(http.MethodGet, "/liked-songs", s.LikedSongs)
	r.HandleFunc(http.MethodPost, "/generate-playlist", s.GeneratePlaylist)
	r.Handler(NewOAuthHandler(s.auth, s.conf.Server.FrontendURL))
	r.NotFound(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	}))

	return r
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.conf.Server.Addr(),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
