package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/artisanstudio/artisan-api/internal/extract"
	"github.com/artisanstudio/artisan-api/internal/httpx"
	"github.com/artisanstudio/artisan-api/internal/provider"
	"github.com/artisanstudio/artisan-api/internal/storage"
	"github.com/artisanstudio/artisan-api/internal/telemetry"
)

// Failure messages produced by the supervisor itself, as opposed to text
// relayed from the provider.
const (
	msgTimeout        = "Timeout waiting for video generation"
	msgContentMissing = "Video completed but could not retrieve video content"
	msgProviderFailed = "Video generation failed"
	msgPersistFailed  = "Video generated but could not be stored"
)

// supervisorGroup tracks in-flight supervisor goroutines so shutdown and
// tests can wait for them, and so a panic inside one is logged instead of
// silently lost.
type supervisorGroup struct {
	wg sync.WaitGroup
}

func (g *supervisorGroup) Go(logger *slog.Logger, jobID string, fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("polling supervisor panicked",
					slog.String("job_id", jobID),
					slog.Any("panic", r),
				)
			}
		}()
		fn()
	}()
}

func (g *supervisorGroup) Wait() {
	g.wg.Wait()
}

// superviseVideo starts the polling supervisor for one asynchronous video
// job. The supervisor is the sole writer of the job's terminal fields: it
// polls the provider at a fixed interval until a terminal status or until the
// attempt budget is exhausted, then transitions the job exactly once.
func (s *Service) superviseVideo(ctx context.Context, jobID, providerJobID string) {
	s.supervisors.Go(s.logger, jobID, func() {
		telemetry.JobsInFlight.Inc()
		defer telemetry.JobsInFlight.Dec()
		s.pollUntilTerminal(ctx, jobID, providerJobID)
	})
}

func (s *Service) pollUntilTerminal(ctx context.Context, jobID, providerJobID string) {
	p := s.videoProvider
	logger := s.logger.With(
		slog.String("job_id", jobID),
		slog.String("provider_job_id", providerJobID),
	)

	for attempt := 1; attempt <= s.maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			s.failJob(ctx, jobID, msgTimeout, "timeout")
			return
		case <-time.After(s.pollInterval):
		}

		telemetry.PollAttempts.WithLabelValues(p.Name()).Inc()

		result, err := p.Poll(ctx, providerJobID)
		if err != nil {
			// Transient: a single failed poll never fails the job. A provider
			// that keeps erroring runs out the attempt budget instead.
			logger.Warn("poll attempt failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			continue
		}

		switch result.State {
		case provider.StateSucceeded:
			s.finalizeVideo(ctx, logger, jobID, providerJobID, result.Raw)
			return
		case provider.StateFailed:
			msg := result.Error
			if msg == "" {
				msg = msgProviderFailed
			}
			s.failJob(ctx, jobID, msg, "provider")
			return
		default:
			// Non-terminal; next attempt.
		}
	}

	s.failJob(ctx, jobID, msgTimeout, "timeout")
}

// finalizeVideo turns a terminal-success poll into a stored artifact and a
// completed job. The status payload is tried first for a direct URL; when it
// carries none, the provider's separate content endpoints are used.
func (s *Service) finalizeVideo(ctx context.Context, logger *slog.Logger, jobID, providerJobID string, raw []byte) {
	p := s.videoProvider

	var data []byte
	if u, ok := extract.URL(raw); ok {
		downloaded, err := httpx.Download(ctx, u)
		if err != nil {
			logger.Warn("result URL download failed, trying content fetch",
				slog.String("url", u),
				slog.String("error", err.Error()),
			)
		} else {
			data = downloaded
		}
	} else {
		// No known shape matched; keep the raw payload visible for diagnosis
		// before falling back to the content endpoints.
		logger.Warn("no result URL in status payload", slog.String("payload", string(raw)))
	}

	if data == nil {
		fetched, err := p.FetchContent(ctx, providerJobID)
		if err != nil || len(fetched) == 0 {
			if err != nil {
				logger.Error("content fetch failed", slog.String("error", err.Error()))
			}
			s.failJob(ctx, jobID, msgContentMissing, "content")
			return
		}
		data = fetched
	}

	filename := fmt.Sprintf("%s_%s.mp4", p.Name(), jobID)
	storedURL, err := s.store.Save(ctx, storage.CategoryVideos, filename, data)
	if err != nil {
		logger.Error("artifact save failed", slog.String("error", err.Error()))
		s.failJob(ctx, jobID, msgPersistFailed, "internal")
		return
	}

	j, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		logger.Error("job vanished before completion", slog.String("error", err.Error()))
		return
	}
	if err := j.Complete(storedURL); err != nil {
		logger.Error("completion transition rejected", slog.String("error", err.Error()))
		return
	}
	if err := s.repo.Save(ctx, j); err != nil {
		logger.Error("job update failed", slog.String("error", err.Error()))
		return
	}

	telemetry.JobsCompleted.WithLabelValues(string(j.Kind), j.Provider).Inc()
	logger.Info("video job completed", slog.String("url", storedURL))
}

// failJob transitions a job to failed with the given message. Transition
// errors mean the job already reached a terminal state and are ignored.
func (s *Service) failJob(ctx context.Context, jobID, msg, reason string) {
	j, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return
	}
	if err := j.Fail(msg); err != nil {
		return
	}
	if err := s.repo.Save(ctx, j); err != nil {
		s.logger.Error("job update failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	telemetry.JobsFailed.WithLabelValues(string(j.Kind), j.Provider, reason).Inc()
	s.logger.Warn("video job failed",
		slog.String("job_id", jobID),
		slog.String("reason", reason),
		slog.String("error", msg),
	)
}
