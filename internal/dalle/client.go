// Package dalle provides an HTTP client for the Azure OpenAI DALL-E 3 image
// generation API. The API is synchronous: one call returns the finished
// image's URL, there is no provider-side job to poll.
package dalle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/artisanstudio/artisan-api/internal/httpx"
)

const apiVersion = "2024-02-01"

// Static errors for DALL-E client operations.
var (
	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("dalle: API key is required")
	// ErrEndpointRequired is returned when no endpoint is provided.
	ErrEndpointRequired = errors.New("dalle: endpoint is required")
	// ErrNoImageReturned is returned when a successful response carries no
	// image data.
	ErrNoImageReturned = errors.New("dalle: no image returned from API")
)

// Request contains the image generation parameters.
type Request struct {
	Prompt  string
	Size    string // e.g. "1024x1024"
	Quality string // "standard" or "hd"
	Style   string // "vivid" or "natural"
}

// Result is a finished image generation.
type Result struct {
	// URL is the provider-hosted image URL; short-lived, download promptly.
	URL string
	// RevisedPrompt is the provider's rewrite of the input prompt.
	RevisedPrompt string
}

// Client defines the interface for the DALL-E image API.
type Client interface {
	// Generate creates one image and returns its provider-hosted URL.
	Generate(ctx context.Context, req Request) (Result, error)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// HTTPClient is the HTTP implementation of the Client interface.
type HTTPClient struct {
	endpoint   string
	deployment string
	http       *httpx.Client
}

// Option configures an HTTPClient.
type Option func(*options)

type options struct {
	deployment string
	httpOpts   []httpx.Option
}

// WithDeployment overrides the model deployment name (default "dall-e-3").
func WithDeployment(name string) Option {
	return func(o *options) {
		o.deployment = name
	}
}

// WithHTTPOptions forwards options to the underlying HTTP client.
func WithHTTPOptions(opts ...httpx.Option) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

// NewClient creates a DALL-E client for the given Azure endpoint.
// Authentication uses the "api-key" header.
func NewClient(endpoint, apiKey string, opts ...Option) (*HTTPClient, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	o := options{deployment: "dall-e-3"}
	for _, opt := range opts {
		opt(&o)
	}

	httpOpts := append([]httpx.Option{httpx.WithAuthHeader("api-key", apiKey)}, o.httpOpts...)

	return &HTTPClient{
		endpoint:   trimSlash(endpoint),
		deployment: o.deployment,
		http:       httpx.New(httpOpts...),
	}, nil
}

type generationRequest struct {
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

type generationResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// Generate creates one image and returns its provider-hosted URL.
func (c *HTTPClient) Generate(ctx context.Context, req Request) (Result, error) {
	payload := generationRequest{
		Prompt:  req.Prompt,
		N:       1,
		Size:    defaultString(req.Size, "1024x1024"),
		Quality: defaultString(req.Quality, "standard"),
		Style:   defaultString(req.Style, "vivid"),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("dalle: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/images/generations?api-version=%s",
		c.endpoint, c.deployment, apiVersion)

	var resp generationResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, url, body, &resp); err != nil {
		return Result{}, fmt.Errorf("dalle: generate: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return Result{}, ErrNoImageReturned
	}

	return Result{
		URL:           resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
