// Package provider defines the common abstraction over generative media
// backends. Concrete providers differ in payload shape, credential header,
// base URL and protocol class; job tracking, polling and persistence are
// shared and live outside this package.
package provider

import (
	"context"
	"errors"
)

// Protocol classifies how a provider delivers results.
type Protocol int

const (
	// ProtocolSync providers return a finished result from the submission
	// call itself.
	ProtocolSync Protocol = iota
	// ProtocolAsync providers return a job handle; completion is observed by
	// polling, and content may require a separate fetch.
	ProtocolAsync
)

// ErrNotAsynchronous is returned when Poll or FetchContent is called on a
// synchronous provider.
var ErrNotAsynchronous = errors.New("provider: operation requires an asynchronous provider")

// Request carries the provider-agnostic generation parameters. Fields not
// relevant to a provider's media type are ignored by its adapter.
type Request struct {
	Prompt string

	// Image parameters.
	Size    string
	Quality string
	Style   string

	// Video parameters.
	Width           int
	Height          int
	DurationSeconds int
}

// Submission is the outcome of one Generate call. Exactly one of the two
// branches is populated: a finished result (synchronous providers) or a
// provider job handle (asynchronous providers).
type Submission struct {
	// Done is true when the submission already carries the finished result.
	Done bool
	// ResultURL is the provider-hosted artifact URL (Done submissions only).
	ResultURL string
	// RevisedPrompt is the provider's rewrite of the prompt, when reported.
	RevisedPrompt string
	// ProviderJobID is the handle to poll (asynchronous submissions only).
	ProviderJobID string
}

// State classifies a poll outcome for the supervisor.
type State int

const (
	// StateRunning means the job has not reached a terminal state.
	StateRunning State = iota
	// StateSucceeded means the provider reports terminal success.
	StateSucceeded
	// StateFailed means the provider reports terminal failure or cancellation.
	StateFailed
)

// PollResult is the outcome of one status poll. Raw carries the full status
// payload for URL extraction on success.
type PollResult struct {
	State State
	Raw   []byte
	Error string // provider failure text, when State is StateFailed
}

// Provider is the single interface every backend adapter implements.
type Provider interface {
	// Name is the model tag recorded on jobs and echoed in results.
	Name() string

	// Protocol reports which delivery class the provider follows.
	Protocol() Protocol

	// Generate submits one generation request.
	Generate(ctx context.Context, req Request) (Submission, error)

	// Poll checks the status of an asynchronous job.
	Poll(ctx context.Context, providerJobID string) (PollResult, error)

	// FetchContent retrieves the finished artifact bytes when the status
	// payload does not carry a usable URL. Only asynchronous providers that
	// use a separate content endpoint implement this meaningfully.
	FetchContent(ctx context.Context, providerJobID string) ([]byte, error)
}
