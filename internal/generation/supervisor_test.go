package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanstudio/artisan-api/internal/job"
	"github.com/artisanstudio/artisan-api/internal/provider"
)

func startVideoJob(t *testing.T, svc *Service) string {
	t.Helper()
	resp := svc.GenerateVideo(context.Background(), VideoRequest{Prompt: "waves"})
	require.True(t, resp.Success)
	return resp.JobID
}

func TestSupervisor_SucceedsOnThirdPoll(t *testing.T) {
	artifact := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mp4-bytes"))
	}))
	defer artifact.Close()

	repo := job.NewMemoryRepository()
	store := newMemStorage()
	p := &stubProvider{
		name:       "sora",
		protocol:   provider.ProtocolAsync,
		submission: provider.Submission{ProviderJobID: "task-1"},
		polls: []provider.PollResult{
			{State: provider.StateRunning},
			{State: provider.StateRunning},
			{State: provider.StateSucceeded, Raw: []byte(fmt.Sprintf(`{"generations":[{"url":%q}]}`, artifact.URL))},
		},
	}
	svc := NewService(repo, store, testLogger(),
		WithVideoProvider(p),
		WithPollInterval(time.Millisecond),
	)

	jobID := startVideoJob(t, svc)
	svc.Wait()

	assert.Equal(t, 3, p.pollCount())

	j, err := repo.FindByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, j.Status)
	assert.Equal(t, "/media/videos/sora_"+jobID+".mp4", j.ResultURL)
	assert.Empty(t, j.Error)

	stored, ok := store.files["videos/sora_"+jobID+".mp4"]
	require.True(t, ok, "artifact must be stored")
	assert.Equal(t, []byte("mp4-bytes"), stored)
}

func TestSupervisor_ContentFetchFallback(t *testing.T) {
	repo := job.NewMemoryRepository()
	store := newMemStorage()
	p := &stubProvider{
		name:       "sora",
		protocol:   provider.ProtocolAsync,
		submission: provider.Submission{ProviderJobID: "task-1"},
		polls: []provider.PollResult{
			// Status payload carries no URL in any known shape.
			{State: provider.StateSucceeded, Raw: []byte(`{"status":"succeeded"}`)},
		},
		content: []byte("fetched-bytes"),
	}
	svc := NewService(repo, store, testLogger(),
		WithVideoProvider(p),
		WithPollInterval(time.Millisecond),
	)

	jobID := startVideoJob(t, svc)
	svc.Wait()

	j, err := repo.FindByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, j.Status)
	assert.Equal(t, []byte("fetched-bytes"), store.files["videos/sora_"+jobID+".mp4"])
}

func TestSupervisor_ContentMissing(t *testing.T) {
	repo := job.NewMemoryRepository()
	p := &stubProvider{
		name:       "sora",
		protocol:   provider.ProtocolAsync,
		submission: provider.Submission{ProviderJobID: "task-1"},
		polls: []provider.PollResult{
			{State: provider.StateSucceeded, Raw: []byte(`{"status":"succeeded"}`)},
		},
		contentErr: errors.New("404 from content endpoint"),
	}
	svc := NewService(repo, newMemStorage(), testLogger(),
		WithVideoProvider(p),
		WithPollInterval(time.Millisecond),
	)

	jobID := startVideoJob(t, svc)
	svc.Wait()

	j, err := repo.FindByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusFailed, j.Status)
	assert.Equal(t, "Video completed but could not retrieve video content", j.Error)
	assert.Empty(t, j.ResultURL)
}

func TestSupervisor_ProviderFailure(t *testing.T) {
	repo := job.NewMemoryRepository()
	p := &stubProvider{
		name:       "sora",
		protocol:   provider.ProtocolAsync,
		submission: provider.Submission{ProviderJobID: "task-1"},
		polls: []provider.PollResult{
			{State: provider.StateRunning},
			{State: provider.StateFailed, Error: "content policy violation"},
		},
	}
	svc := NewService(repo, newMemStorage(), testLogger(),
		WithVideoProvider(p),
		WithPollInterval(time.Millisecond),
	)

	jobID := startVideoJob(t, svc)
	svc.Wait()

	j, err := repo.FindByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusFailed, j.Status)
	assert.Equal(t, "content policy violation", j.Error)

	status := svc.VideoStatus(context.Background(), jobID)
	assert.False(t, status.Success)
	assert.Equal(t, "content policy violation", status.Message)
}

func TestSupervisor_ProviderFailureDefaultMessage(t *testing.T) {
	repo := job.NewMemoryRepository()
	p := &stubProvider{
		name:       "sora",
		protocol:   provider.ProtocolAsync,
		submission: provider.Submission{ProviderJobID: "task-1"},
		polls: []provider.PollResult{
			{State: provider.StateFailed},
		},
	}
	svc := NewService(repo, newMemStorage(), testLogger(),
		WithVideoProvider(p),
		WithPollInterval(time.Millisecond),
	)

	jobID := startVideoJob(t, svc)
	svc.Wait()

	j, err := repo.FindByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, "Video generation failed", j.Error)
}

func TestSupervisor_TimeoutAfterAttemptBudget(t *testing.T) {
	repo := job.NewMemoryRepository()
	p := &stubProvider{
		name:       "sora",
		protocol:   provider.ProtocolAsync,
		submission: provider.Submission{ProviderJobID: "task-1"},
		// No scripted polls: every attempt reports running.
	}
	svc := NewService(repo, newMemStorage(), testLogger(),
		WithVideoProvider(p),
		WithPollInterval(time.Millisecond),
		WithMaxPollAttempts(4),
	)

	jobID := startVideoJob(t, svc)
	svc.Wait()

	assert.Equal(t, 4, p.pollCount(), "exactly the attempt budget is spent")

	j, err := repo.FindByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusFailed, j.Status)
	assert.Equal(t, "Timeout waiting for video generation", j.Error)
}

func TestSupervisor_TransientPollErrorsDoNotFailJob(t *testing.T) {
	repo := job.NewMemoryRepository()
	p := &stubProvider{
		name:       "sora",
		protocol:   provider.ProtocolAsync,
		submission: provider.Submission{ProviderJobID: "task-1"},
		pollErrs:   []error{errors.New("503"), errors.New("timeout")},
		polls: []provider.PollResult{
			{}, {}, // consumed by the erroring attempts
			{State: provider.StateSucceeded, Raw: []byte(`{"status":"succeeded"}`)},
		},
		content: []byte("mp4"),
	}
	svc := NewService(repo, newMemStorage(), testLogger(),
		WithVideoProvider(p),
		WithPollInterval(time.Millisecond),
	)

	jobID := startVideoJob(t, svc)
	svc.Wait()

	j, err := repo.FindByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, j.Status, "transient poll errors must not fail the job")
}
