package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanstudio/artisan-api/internal/dalle"
	"github.com/artisanstudio/artisan-api/internal/sora"
)

// fakeDalleClient implements dalle.Client for testing.
type fakeDalleClient struct {
	result dalle.Result
	err    error
	got    dalle.Request
}

func (f *fakeDalleClient) Generate(_ context.Context, req dalle.Request) (dalle.Result, error) {
	f.got = req
	return f.result, f.err
}

// fakeSoraClient implements sora.Client for testing.
type fakeSoraClient struct {
	jobID     string
	submitErr error
	poll      sora.PollResult
	pollErr   error
	content   []byte
}

func (f *fakeSoraClient) Submit(_ context.Context, _ sora.Request) (string, error) {
	return f.jobID, f.submitErr
}

func (f *fakeSoraClient) Poll(_ context.Context, _ string) (sora.PollResult, error) {
	return f.poll, f.pollErr
}

func (f *fakeSoraClient) FetchContent(_ context.Context, _ string) ([]byte, error) {
	return f.content, nil
}

func TestDalleAdapter_Generate(t *testing.T) {
	client := &fakeDalleClient{result: dalle.Result{
		URL:           "https://blob.example/img.png",
		RevisedPrompt: "a refined prompt",
	}}
	a := NewDalleAdapter(client)

	assert.Equal(t, "dall-e-3", a.Name())
	assert.Equal(t, ProtocolSync, a.Protocol())

	sub, err := a.Generate(context.Background(), Request{
		Prompt: "a prompt",
		Size:   "1792x1024",
	})
	require.NoError(t, err)

	assert.True(t, sub.Done)
	assert.Equal(t, "https://blob.example/img.png", sub.ResultURL)
	assert.Equal(t, "a refined prompt", sub.RevisedPrompt)
	assert.Equal(t, "1792x1024", client.got.Size)
}

func TestDalleAdapter_GenerateError(t *testing.T) {
	wantErr := errors.New("boom")
	a := NewDalleAdapter(&fakeDalleClient{err: wantErr})

	_, err := a.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestDalleAdapter_AsyncOperationsUnsupported(t *testing.T) {
	a := NewDalleAdapter(&fakeDalleClient{})

	_, err := a.Poll(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotAsynchronous)

	_, err = a.FetchContent(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotAsynchronous)
}

func TestSoraAdapter_Generate(t *testing.T) {
	a := NewSoraAdapter(&fakeSoraClient{jobID: "task-7"})

	assert.Equal(t, "sora", a.Name())
	assert.Equal(t, ProtocolAsync, a.Protocol())

	sub, err := a.Generate(context.Background(), Request{Prompt: "p", Width: 1920, Height: 1080})
	require.NoError(t, err)

	assert.False(t, sub.Done)
	assert.Equal(t, "task-7", sub.ProviderJobID)
}

func TestSoraAdapter_PollStateMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    sora.Status
		errText   string
		wantState State
	}{
		{"queued maps to running", sora.StatusQueued, "", StateRunning},
		{"processing maps to running", sora.StatusProcessing, "", StateRunning},
		{"succeeded", sora.StatusSucceeded, "", StateSucceeded},
		{"completed counts as success", sora.StatusCompleted, "", StateSucceeded},
		{"failed", sora.StatusFailed, "unsafe prompt", StateFailed},
		{"cancelled counts as failure", sora.StatusCancelled, "", StateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewSoraAdapter(&fakeSoraClient{poll: sora.PollResult{
				Status: tt.status,
				Raw:    []byte(`{}`),
				Error:  tt.errText,
			}})

			res, err := a.Poll(context.Background(), "task-7")
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, res.State)
			assert.Equal(t, tt.errText, res.Error)
		})
	}
}

func TestSoraAdapter_FetchContent(t *testing.T) {
	a := NewSoraAdapter(&fakeSoraClient{content: []byte("mp4")})

	data, err := a.FetchContent(context.Background(), "task-7")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4"), data)
}
