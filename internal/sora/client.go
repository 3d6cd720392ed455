// Package sora provides an HTTP client for the Azure Sora video generation
// jobs API. The API is asynchronous: submission returns a provider-side job
// ID, status is polled separately, and for most deployments the finished
// video must be retrieved with a third call to a content endpoint.
package sora

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/artisanstudio/artisan-api/internal/extract"
	"github.com/artisanstudio/artisan-api/internal/httpx"
)

const apiVersion = "preview"

// Static errors for Sora client operations.
var (
	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("sora: API key is required")
	// ErrEndpointRequired is returned when no endpoint is provided.
	ErrEndpointRequired = errors.New("sora: endpoint is required")
	// ErrJobIDRequired is returned when the job ID is not provided.
	ErrJobIDRequired = errors.New("sora: job ID is required")
	// ErrNoJobIDReturned is returned when the submit response contains no job ID.
	ErrNoJobIDReturned = errors.New("sora: submit failed: no job ID returned")
	// ErrNoContent is returned when no content endpoint yields a video payload.
	ErrNoContent = errors.New("sora: no video content available")
)

// Status represents the provider-side state of a Sora job.
type Status string

// Sora job statuses as reported by the jobs API.
const (
	StatusQueued        Status = "queued"
	StatusPreprocessing Status = "preprocessing"
	StatusRunning       Status = "running"
	StatusProcessing    Status = "processing"
	StatusSucceeded     Status = "succeeded"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "failed"
	StatusCancelled     Status = "cancelled"
)

// IsSuccess returns true for the terminal success statuses.
func (s Status) IsSuccess() bool {
	return s == StatusSucceeded || s == StatusCompleted
}

// IsFailure returns true for the terminal failure statuses.
func (s Status) IsFailure() bool {
	return s == StatusFailed || s == StatusCancelled
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s.IsSuccess() || s.IsFailure()
}

// Request contains the video generation parameters.
type Request struct {
	Prompt          string
	Width           int
	Height          int
	DurationSeconds int
}

// PollResult contains the outcome of one status poll. Raw carries the full
// status payload so callers can attempt URL extraction from it before falling
// back to the content endpoints.
type PollResult struct {
	Status Status
	Raw    []byte
	Error  string // provider-supplied failure text, when status is a failure
}

// Client defines the interface for the Sora video jobs API.
type Client interface {
	// Submit starts a generation job and returns the provider job ID.
	Submit(ctx context.Context, req Request) (jobID string, err error)

	// Poll checks the status of a job.
	Poll(ctx context.Context, jobID string) (PollResult, error)

	// FetchContent retrieves the finished video bytes, trying the known
	// content endpoint conventions in order.
	FetchContent(ctx context.Context, jobID string) ([]byte, error)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// HTTPClient is the HTTP implementation of the Client interface.
type HTTPClient struct {
	endpoint string
	http     *httpx.Client
}

// NewClient creates a Sora client for the given Azure endpoint.
// Authentication uses the "Api-key" header.
func NewClient(endpoint, apiKey string, httpOpts ...httpx.Option) (*HTTPClient, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	opts := append([]httpx.Option{httpx.WithAuthHeader("Api-key", apiKey)}, httpOpts...)

	return &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     httpx.New(opts...),
	}, nil
}

type submitRequest struct {
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
	Height   string `json:"height"`
	Width    string `json:"width"`
	Seconds  string `json:"n_seconds"`
	Variants string `json:"n_variants"`
}

type submitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Submit starts a generation job and returns the provider job ID.
func (c *HTTPClient) Submit(ctx context.Context, req Request) (string, error) {
	payload := submitRequest{
		Model:    "sora",
		Prompt:   req.Prompt,
		Height:   strconv.Itoa(req.Height),
		Width:    strconv.Itoa(req.Width),
		Seconds:  strconv.Itoa(req.DurationSeconds),
		Variants: "1",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("sora: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/v1/video/generations/jobs?api-version=%s", c.endpoint, apiVersion)

	var resp submitResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, url, body, &resp); err != nil {
		return "", fmt.Errorf("sora: submit: %w", err)
	}

	if resp.ID == "" {
		return "", ErrNoJobIDReturned
	}
	return resp.ID, nil
}

// Poll checks the status of a job.
func (c *HTTPClient) Poll(ctx context.Context, jobID string) (PollResult, error) {
	if jobID == "" {
		return PollResult{}, ErrJobIDRequired
	}

	url := fmt.Sprintf("%s?api-version=%s", c.jobURL(jobID), apiVersion)

	resp, err := c.http.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PollResult{}, fmt.Errorf("sora: poll: %w", err)
	}

	var status struct {
		Status string          `json:"status"`
		Error  json.RawMessage `json:"error,omitempty"`
	}
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return PollResult{}, fmt.Errorf("sora: unmarshal status: %w", err)
	}

	result := PollResult{
		Status: Status(strings.ToLower(status.Status)),
		Raw:    resp.Body,
	}
	if result.Status.IsFailure() && len(status.Error) > 0 {
		result.Error = errorText(status.Error)
	}
	return result, nil
}

// FetchContent retrieves the finished video, trying the known content path
// conventions in order: the dedicated video content endpoint first, then the
// generic content endpoint, which may answer with either raw video bytes or a
// JSON document pointing at a download URL.
func (c *HTTPClient) FetchContent(ctx context.Context, jobID string) ([]byte, error) {
	if jobID == "" {
		return nil, ErrJobIDRequired
	}

	videoURL := fmt.Sprintf("%s/content/video?api-version=%s", c.jobURL(jobID), apiVersion)
	if resp, err := c.http.Do(ctx, http.MethodGet, videoURL, nil); err == nil && len(resp.Body) > 0 {
		return resp.Body, nil
	}

	contentURL := fmt.Sprintf("%s/content?api-version=%s", c.jobURL(jobID), apiVersion)
	resp, err := c.http.Do(ctx, http.MethodGet, contentURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sora: fetch content: %w", err)
	}

	if strings.HasPrefix(resp.ContentType, "video/") {
		if len(resp.Body) == 0 {
			return nil, ErrNoContent
		}
		return resp.Body, nil
	}

	// JSON answer: the payload points at the artifact instead of carrying it.
	if u, ok := extract.URL(resp.Body); ok {
		data, err := httpx.Download(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("sora: download content: %w", err)
		}
		return data, nil
	}

	return nil, ErrNoContent
}

func (c *HTTPClient) jobURL(jobID string) string {
	return fmt.Sprintf("%s/openai/v1/video/generations/jobs/%s", c.endpoint, jobID)
}

// errorText flattens the provider error field, which may be a plain string or
// a structured object, into a message.
func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}
