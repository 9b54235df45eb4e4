// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/desertthunder/tastemaker/internal/shared"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Upstream is a fake provider that routes on "METHOD /path" and counts every request it sees.
//
// Unrouted requests get a 404 and are still counted, so tests can assert on calls that should never happen.
type Upstream struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
	bodies map[string][]string
	total  int
}

// NewUpstream starts an [Upstream] that is closed when the test ends.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
		bodies: make(map[string][]string),
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// Handle registers h for method and path.
func (u *Upstream) Handle(method, path string, h http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[method+" "+path] = h
}

// Hits returns how many requests were made to method and path.
func (u *Upstream) Hits(method, path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[method+" "+path]
}

// Bodies returns the request bodies sent to method and path, in arrival order.
func (u *Upstream) Bodies(method, path string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.bodies[method+" "+path]...)
}

// Total returns the number of requests received on any route.
func (u *Upstream) Total() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.total
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.total++
	u.hits[key]++
	u.bodies[key] = append(u.bodies[key], string(body))
	h, ok := u.routes[key]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	h(w, r)
}

// JSON returns a handler that writes body with the given status.
func JSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

// Config returns a valid configuration whose provider endpoints all point at baseURL.
func Config(baseURL string) *shared.Config {
	conf := shared.DefaultConfig()
	conf.Credentials.Spotify.ClientID = "client-id"
	conf.Credentials.Spotify.ClientSecret = "client-secret"
	conf.Credentials.Spotify.RedirectURI = "http://localhost:5000/callback"
	conf.Credentials.OpenAI.APIKey = "sk-test"
	conf.Spotify.APIURL = baseURL + "/v1"
	conf.Spotify.AuthURL = baseURL + "/authorize"
	conf.Spotify.TokenURL = baseURL + "/api/token"
	conf.Completion.BaseURL = baseURL + "/openai"
	return conf
}
