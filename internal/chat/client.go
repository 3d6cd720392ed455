// Package chat provides an HTTP client for the Azure OpenAI chat completions
// API, used to generate presentation content as a JSON document.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/artisanstudio/artisan-api/internal/httpx"
)

const apiVersion = "2024-02-01"

// Static errors for chat client operations.
var (
	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("chat: API key is required")
	// ErrEndpointRequired is returned when no endpoint is provided.
	ErrEndpointRequired = errors.New("chat: endpoint is required")
	// ErrEmptyCompletion is returned when the response carries no content.
	ErrEmptyCompletion = errors.New("chat: empty completion content")
)

// Client defines the interface for JSON-mode chat completion.
type Client interface {
	// CompleteJSON sends a system and user message with JSON response format
	// enabled and returns the raw content of the first choice.
	CompleteJSON(ctx context.Context, system, user string) ([]byte, error)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// HTTPClient is the HTTP implementation of the Client interface.
type HTTPClient struct {
	endpoint   string
	deployment string
	http       *httpx.Client
}

// NewClient creates a chat client for the given Azure endpoint and model
// deployment. Authentication uses the "api-key" header. Deck generation can
// take a while, so the default request timeout is generous.
func NewClient(endpoint, apiKey, deployment string, httpOpts ...httpx.Option) (*HTTPClient, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if deployment == "" {
		deployment = "gpt-4o"
	}

	opts := append([]httpx.Option{
		httpx.WithAuthHeader("api-key", apiKey),
		httpx.WithHTTPClient(&http.Client{Timeout: 3 * time.Minute}),
	}, httpOpts...)

	return &HTTPClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		deployment: deployment,
		http:       httpx.New(opts...),
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages       []message      `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// CompleteJSON sends a system and user message and returns the raw JSON
// content of the first choice.
func (c *HTTPClient) CompleteJSON(ctx context.Context, system, user string) ([]byte, error) {
	payload := completionRequest{
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0.7,
		MaxTokens:      4000,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("chat: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, apiVersion)

	var resp completionResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, fmt.Errorf("chat: complete: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrEmptyCompletion
	}
	return []byte(resp.Choices[0].Message.Content), nil
}
