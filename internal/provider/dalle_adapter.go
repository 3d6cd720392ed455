package provider

import (
	"context"
	"fmt"

	"github.com/artisanstudio/artisan-api/internal/dalle"
)

// Compile-time check that DalleAdapter implements Provider.
var _ Provider = (*DalleAdapter)(nil)

// DalleAdapter adapts the DALL-E image client to the Provider interface.
// DALL-E is synchronous: Generate returns a finished submission.
type DalleAdapter struct {
	client dalle.Client
}

// NewDalleAdapter creates a DALL-E provider adapter.
func NewDalleAdapter(client dalle.Client) *DalleAdapter {
	return &DalleAdapter{client: client}
}

// Name returns the model tag.
func (a *DalleAdapter) Name() string { return "dall-e-3" }

// Protocol reports the synchronous delivery class.
func (a *DalleAdapter) Protocol() Protocol { return ProtocolSync }

// Generate creates one image and returns a finished submission.
func (a *DalleAdapter) Generate(ctx context.Context, req Request) (Submission, error) {
	result, err := a.client.Generate(ctx, dalle.Request{
		Prompt:  req.Prompt,
		Size:    req.Size,
		Quality: req.Quality,
		Style:   req.Style,
	})
	if err != nil {
		return Submission{}, fmt.Errorf("dalle adapter generate: %w", err)
	}

	return Submission{
		Done:          true,
		ResultURL:     result.URL,
		RevisedPrompt: result.RevisedPrompt,
	}, nil
}

// Poll is not supported for synchronous providers.
func (a *DalleAdapter) Poll(_ context.Context, _ string) (PollResult, error) {
	return PollResult{}, ErrNotAsynchronous
}

// FetchContent is not supported for synchronous providers.
func (a *DalleAdapter) FetchContent(_ context.Context, _ string) ([]byte, error) {
	return nil, ErrNotAsynchronous
}
