package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/tastemaker/internal/models"
	"github.com/desertthunder/tastemaker/internal/shared"
	"github.com/tidwall/gjson"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// CompletionService implements [Recommender] against an OpenAI-compatible chat completions endpoint.
type CompletionService struct {
	baseURL    string
	apiKey     string
	model      string
	mode       MalformedMode
	httpClient *http.Client
}

// NewCompletionService creates a completion client from conf. A nil client uses [http.DefaultClient].
func NewCompletionService(conf *shared.Config, client *http.Client) *CompletionService {
	if client == nil {
		client = http.DefaultClient
	}
	return &CompletionService{
		baseURL:    strings.TrimRight(conf.Completion.BaseURL, "/"),
		apiKey:     conf.Credentials.OpenAI.APIKey,
		model:      conf.Completion.Model,
		mode:       ParseMalformedMode(conf.Completion.MalformedLines),
		httpClient: client,
	}
}

// Complete sends prompt as a single user message and returns the first choice's text.
//
// Transport failures, non-2xx responses and empty content all wrap [shared.ErrUpstreamCompletion].
func (c *CompletionService) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: missing api key", shared.ErrUpstreamCompletion)
	}

	payload := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("completion: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("completion: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", shared.ErrUpstreamCompletion, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", shared.ErrUpstreamCompletion, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := gjson.GetBytes(data, "error.message").String(); msg != "" {
			return "", fmt.Errorf("%w: status %d: %s", shared.ErrUpstreamCompletion, resp.StatusCode, msg)
		}
		return "", fmt.Errorf("%w: unexpected status %d", shared.ErrUpstreamCompletion, resp.StatusCode)
	}

	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: invalid response body", shared.ErrUpstreamCompletion)
	}

	content := gjson.GetBytes(data, "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty response", shared.ErrUpstreamCompletion)
	}

	return content, nil
}

// Recommend completes prompt and parses the reply into tracks.
func (c *CompletionService) Recommend(ctx context.Context, prompt string) ([]models.Track, error) {
	text, err := c.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseRecommendations(text, c.mode), nil
}
