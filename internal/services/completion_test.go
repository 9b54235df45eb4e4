package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/tastemaker/internal/shared"
	tu "github.com/desertthunder/tastemaker/internal/testing"
)

func TestCompletionService(t *testing.T) {
	const path = "/openai/chat/completions"

	t.Run("Recommend", func(t *testing.T) {
		upstream := tu.NewUpstream(t)
		upstream.Handle(http.MethodPost, path, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer sk-test" {
				t.Errorf("unexpected authorization header: %s", r.Header.Get("Authorization"))
			}

			var req chatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.Model != "gpt-4" {
				t.Errorf("expected model gpt-4, got %s", req.Model)
			}
			if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "prompt" {
				t.Errorf("unexpected messages: %+v", req.Messages)
			}

			tu.JSON(http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"Song1 - Artist1\nSong2 - Artist2"}}]}`)(w, r)
		})

		srv := NewCompletionService(tu.Config(upstream.URL), upstream.Client())
		tracks, err := srv.Recommend(context.Background(), "prompt")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].Name != "Song1" || tracks[0].Artist != "Artist1" || tracks[1].Name != "Song2" {
			t.Errorf("unexpected tracks: %+v", tracks)
		}
	})

	t.Run("Complete", func(t *testing.T) {
		tc := []struct {
			name    string
			status  int
			body    string
			wantMsg string
		}{
			{name: "Non-2xx With Message", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited"}}`, wantMsg: "rate limited"},
			{name: "Non-2xx Without Body", status: http.StatusInternalServerError, body: ``, wantMsg: "unexpected status 500"},
			{name: "No Choices", status: http.StatusOK, body: `{"choices":[]}`, wantMsg: "empty response"},
			{name: "Blank Content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"  "}}]}`, wantMsg: "empty response"},
			{name: "Invalid JSON", status: http.StatusOK, body: `not json`, wantMsg: "invalid response body"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				upstream := tu.NewUpstream(t)
				upstream.Handle(http.MethodPost, path, tu.JSON(tt.status, tt.body))

				_, err := NewCompletionService(tu.Config(upstream.URL), upstream.Client()).Complete(context.Background(), "prompt")
				if !errors.Is(err, shared.ErrUpstreamCompletion) {
					t.Fatalf("expected ErrUpstreamCompletion, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("expected error to contain %q, got %v", tt.wantMsg, err)
				}
			})
		}
	})

	t.Run("Missing API Key", func(t *testing.T) {
		upstream := tu.NewUpstream(t)
		conf := tu.Config(upstream.URL)
		conf.Credentials.OpenAI.APIKey = ""

		_, err := NewCompletionService(conf, upstream.Client()).Complete(context.Background(), "prompt")
		if !errors.Is(err, shared.ErrUpstreamCompletion) {
			t.Errorf("expected ErrUpstreamCompletion, got %v", err)
		}
		if upstream.Total() != 0 {
			t.Errorf("expected no upstream requests, got %d", upstream.Total())
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}

		_, err := NewCompletionService(tu.Config("http://example.com"), client).Complete(context.Background(), "prompt")
		if !errors.Is(err, shared.ErrUpstreamCompletion) {
			t.Errorf("expected ErrUpstreamCompletion, got %v", err)
		}
	})

	t.Run("Body Read Failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

		_, err := NewCompletionService(tu.Config("http://example.com"), client).Complete(context.Background(), "prompt")
		if !errors.Is(err, shared.ErrUpstreamCompletion) {
			t.Errorf("expected ErrUpstreamCompletion, got %v", err)
		}
	})
}
