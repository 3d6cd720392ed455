// Package httpx provides the JSON-over-HTTP plumbing shared by the provider
// clients: request execution with exponential backoff on transient failures,
// and status-code classification. Provider packages stay focused on payload
// shapes and endpoints.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Static errors for HTTP operations.
var (
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("httpx: server error")
	// ErrRateLimited is returned when the server returns a 429 status code.
	ErrRateLimited = errors.New("httpx: rate limited")
	// ErrRequestFailed is returned when the request fails with any other
	// non-2xx status code.
	ErrRequestFailed = errors.New("httpx: request failed")
)

// StatusError carries the HTTP status of a failed request so callers can
// surface it ("API error: 401") without parsing error strings.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpx: request failed with status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps the status code onto the matching sentinel for errors.Is checks.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode >= 500:
		return ErrServerError
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrRequestFailed
	}
}

// StatusCode extracts the HTTP status from an error chain, or zero.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Response is the raw outcome of a successful Do call.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client executes HTTP requests with retries. A fixed header (the provider's
// credential header) is attached to every request.
type Client struct {
	httpClient  *http.Client
	headerName  string
	headerValue string
	maxRetries  int
	baseBackoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAuthHeader sets the credential header attached to every request.
func WithAuthHeader(name, value string) Option {
	return func(cl *Client) {
		cl.headerName = name
		cl.headerValue = value
	}
}

// WithMaxRetries sets the maximum number of retries for transient failures.
func WithMaxRetries(n int) Option {
	return func(cl *Client) {
		cl.maxRetries = n
	}
}

// WithBaseBackoff sets the initial backoff duration for retries.
func WithBaseBackoff(d time.Duration) Option {
	return func(cl *Client) {
		cl.baseBackoff = d
	}
}

// New creates a Client with sane defaults.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		maxRetries:  3,
		baseBackoff: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DoJSON performs a request with a JSON body (may be nil) and decodes the
// JSON response into out when out is non-nil.
func (c *Client) DoJSON(ctx context.Context, method, url string, body []byte, out any) error {
	resp, err := c.Do(ctx, method, url, body)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("httpx: unmarshal response: %w", err)
		}
	}
	return nil
}

// Do performs a request with exponential backoff on transient failures
// (network errors, 5xx, 429) and returns the raw response.
func (c *Client) Do(ctx context.Context, method, url string, body []byte) (Response, error) {
	var lastErr error
	backoff := c.baseBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Response{}, fmt.Errorf("httpx: context cancelled: %w", ctx.Err())
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		resp, err := c.do(ctx, method, url, body)
		if err == nil {
			return resp, nil
		}
		if !isRetryable(err) {
			return Response{}, err
		}
		lastErr = err
	}

	return Response{}, fmt.Errorf("httpx: max retries exceeded: %w", lastErr)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return Response{}, fmt.Errorf("httpx: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.headerName != "" {
		req.Header.Set(c.headerName, c.headerValue)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &retryableError{err: fmt.Errorf("httpx: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &retryableError{err: fmt.Errorf("httpx: read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return Response{}, &retryableError{err: statusErr}
		}
		return Response{}, statusErr
	}

	return Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// Download fetches arbitrary bytes from a URL without the credential header,
// for provider-hosted artifact URLs that carry their own signed access.
func Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("httpx: create request: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpx: download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpx: read download: %w", err)
	}
	return data, nil
}

// retryableError wraps errors that should be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
