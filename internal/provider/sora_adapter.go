package provider

import (
	"context"
	"fmt"

	"github.com/artisanstudio/artisan-api/internal/sora"
)

// Compile-time check that SoraAdapter implements Provider.
var _ Provider = (*SoraAdapter)(nil)

// SoraAdapter adapts the Sora video client to the Provider interface.
// Sora is asynchronous: Generate returns a provider job handle, and the
// finished video usually requires a separate content fetch.
type SoraAdapter struct {
	client sora.Client
}

// NewSoraAdapter creates a Sora provider adapter.
func NewSoraAdapter(client sora.Client) *SoraAdapter {
	return &SoraAdapter{client: client}
}

// Name returns the model tag.
func (a *SoraAdapter) Name() string { return "sora" }

// Protocol reports the asynchronous delivery class.
func (a *SoraAdapter) Protocol() Protocol { return ProtocolAsync }

// Generate submits a video job and returns its provider handle.
func (a *SoraAdapter) Generate(ctx context.Context, req Request) (Submission, error) {
	jobID, err := a.client.Submit(ctx, sora.Request{
		Prompt:          req.Prompt,
		Width:           req.Width,
		Height:          req.Height,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		return Submission{}, fmt.Errorf("sora adapter generate: %w", err)
	}

	return Submission{ProviderJobID: jobID}, nil
}

// Poll checks the status of a Sora job and maps it to the common state.
func (a *SoraAdapter) Poll(ctx context.Context, providerJobID string) (PollResult, error) {
	result, err := a.client.Poll(ctx, providerJobID)
	if err != nil {
		return PollResult{}, fmt.Errorf("sora adapter poll: %w", err)
	}

	var state State
	switch {
	case result.Status.IsSuccess():
		state = StateSucceeded
	case result.Status.IsFailure():
		state = StateFailed
	default:
		state = StateRunning
	}

	return PollResult{
		State: state,
		Raw:   result.Raw,
		Error: result.Error,
	}, nil
}

// FetchContent retrieves the finished video bytes via the content endpoints.
func (a *SoraAdapter) FetchContent(ctx context.Context, providerJobID string) ([]byte, error) {
	data, err := a.client.FetchContent(ctx, providerJobID)
	if err != nil {
		return nil, fmt.Errorf("sora adapter fetch content: %w", err)
	}
	return data, nil
}
