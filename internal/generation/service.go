// Package generation is the orchestration core: it turns a synchronous
// generation request into a tracked job, delegates to the configured provider
// and answers status queries from the job store. Asynchronous providers get a
// per-job polling supervisor that drives the job to a terminal state.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/artisanstudio/artisan-api/internal/httpx"
	"github.com/artisanstudio/artisan-api/internal/job"
	"github.com/artisanstudio/artisan-api/internal/job/id"
	"github.com/artisanstudio/artisan-api/internal/provider"
	"github.com/artisanstudio/artisan-api/internal/storage"
	"github.com/artisanstudio/artisan-api/internal/telemetry"
)

// ProviderDemo tags results synthesized without a live provider.
const ProviderDemo = "demo"

// demoVideoURL is the placeholder returned by demo-mode video generation.
const demoVideoURL = "https://sample-videos.com/video321/mp4/720/big_buck_bunny_720p_1mb.mp4"

// Service orchestrates media generation across providers. A nil provider (or
// nil chat client for presentations) routes the corresponding media type into
// demo mode; that is configuration absence, not an error.
type Service struct {
	repo  job.Repository
	store storage.Storage

	imageProvider provider.Provider
	videoProvider provider.Provider
	deckBuilder   DeckBuilder

	logger *slog.Logger

	pollInterval    time.Duration
	maxPollAttempts int

	supervisors supervisorGroup
}

// Option configures a Service.
type Option func(*Service)

// WithImageProvider sets the image backend. Nil keeps demo mode.
func WithImageProvider(p provider.Provider) Option {
	return func(s *Service) { s.imageProvider = p }
}

// WithVideoProvider sets the video backend. Nil keeps demo mode.
func WithVideoProvider(p provider.Provider) Option {
	return func(s *Service) { s.videoProvider = p }
}

// WithDeckBuilder sets the presentation content backend. Nil keeps demo mode.
func WithDeckBuilder(b DeckBuilder) Option {
	return func(s *Service) { s.deckBuilder = b }
}

// WithPollInterval overrides the supervisor poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithMaxPollAttempts overrides the supervisor attempt budget.
func WithMaxPollAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPollAttempts = n
		}
	}
}

// NewService creates a generation Service. Defaults follow the Sora provider
// class: a 5 second poll interval with a 120 attempt budget (about ten
// minutes).
func NewService(repo job.Repository, store storage.Storage, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:            repo,
		store:           store,
		logger:          logger,
		pollInterval:    5 * time.Second,
		maxPollAttempts: 120,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait blocks until all in-flight polling supervisors have finished.
// Used by graceful shutdown and tests.
func (s *Service) Wait() {
	s.supervisors.Wait()
}

// GenerateImage runs one image generation. The DALL-E protocol class is
// synchronous, so the call blocks until the artifact is stored and the job is
// terminal.
func (s *Service) GenerateImage(ctx context.Context, req ImageRequest) ImageResponse {
	s.logger.Info("generating image", slog.String("prompt", req.Prompt))

	if s.imageProvider == nil {
		j := job.New(job.KindImage, ProviderDemo, req.Prompt)
		demoURL := fmt.Sprintf("https://picsum.photos/seed/%s/1024/1024", j.ID)
		_ = j.Complete(demoURL)
		if err := s.repo.Save(ctx, j); err != nil {
			return ImageResponse{Success: false, Message: err.Error()}
		}
		telemetry.JobsSubmitted.WithLabelValues(string(job.KindImage), ProviderDemo).Inc()
		telemetry.JobsCompleted.WithLabelValues(string(job.KindImage), ProviderDemo).Inc()

		return ImageResponse{
			Success: true,
			Message: "Demo mode - configure an image provider credential for real generation",
			JobID:   j.ID,
			Status:  string(job.StatusCompleted),
			Images: []GeneratedImage{{
				ID:        j.ID,
				URL:       demoURL,
				Prompt:    req.Prompt,
				Model:     ProviderDemo,
				CreatedAt: j.CreatedAt,
			}},
		}
	}

	submission, err := s.imageProvider.Generate(ctx, provider.Request{
		Prompt:  req.Prompt,
		Size:    req.Size,
		Quality: req.Quality,
		Style:   req.Style,
	})
	if err != nil {
		s.logger.Error("image generation failed", slog.String("error", err.Error()))
		return ImageResponse{Success: false, Message: submissionErrorMessage(err)}
	}

	data, err := httpx.Download(ctx, submission.ResultURL)
	if err != nil {
		s.logger.Error("image download failed", slog.String("error", err.Error()))
		return ImageResponse{Success: false, Message: "Image generated but could not be retrieved"}
	}

	storedURL, err := s.store.Save(ctx, storage.CategoryImages, id.Artifact("dalle3", "png"), data)
	if err != nil {
		s.logger.Error("image save failed", slog.String("error", err.Error()))
		return ImageResponse{Success: false, Message: err.Error()}
	}

	j := job.New(job.KindImage, s.imageProvider.Name(), req.Prompt)
	j.SetRevisedPrompt(submission.RevisedPrompt)
	_ = j.Complete(storedURL)
	if err := s.repo.Save(ctx, j); err != nil {
		return ImageResponse{Success: false, Message: err.Error()}
	}
	telemetry.JobsSubmitted.WithLabelValues(string(job.KindImage), s.imageProvider.Name()).Inc()
	telemetry.JobsCompleted.WithLabelValues(string(job.KindImage), s.imageProvider.Name()).Inc()

	s.logger.Info("image generated",
		slog.String("job_id", j.ID),
		slog.String("url", storedURL),
	)

	return ImageResponse{
		Success: true,
		Message: "Image generated successfully",
		JobID:   j.ID,
		Status:  string(job.StatusCompleted),
		Images: []GeneratedImage{{
			ID:            j.ID,
			URL:           storedURL,
			Prompt:        req.Prompt,
			RevisedPrompt: submission.RevisedPrompt,
			Model:         s.imageProvider.Name(),
			CreatedAt:     j.CreatedAt,
		}},
	}
}

// GenerateVideo submits one video generation. The Sora protocol class is
// asynchronous: on success the job is registered as processing and a polling
// supervisor drives it to a terminal state in the background; the call
// returns without waiting.
func (s *Service) GenerateVideo(ctx context.Context, req VideoRequest) VideoResponse {
	s.logger.Info("generating video", slog.String("prompt", req.Prompt))

	if req.DurationSeconds <= 0 {
		req.DurationSeconds = 5
	}

	if s.videoProvider == nil {
		j := job.New(job.KindVideo, ProviderDemo, req.Prompt)
		_ = j.Complete(demoVideoURL)
		if err := s.repo.Save(ctx, j); err != nil {
			return VideoResponse{Success: false, Status: string(job.StatusFailed), Message: err.Error()}
		}
		telemetry.JobsSubmitted.WithLabelValues(string(job.KindVideo), ProviderDemo).Inc()
		telemetry.JobsCompleted.WithLabelValues(string(job.KindVideo), ProviderDemo).Inc()

		return VideoResponse{
			Success: true,
			JobID:   j.ID,
			Status:  string(job.StatusCompleted),
			Message: "Demo mode - configure a video provider credential for real generation",
			Video: &GeneratedVideo{
				ID:        j.ID,
				URL:       demoVideoURL,
				Prompt:    req.Prompt,
				Model:     ProviderDemo,
				CreatedAt: j.CreatedAt,
			},
		}
	}

	width, height := req.Dimensions()
	submission, err := s.videoProvider.Generate(ctx, provider.Request{
		Prompt:          req.Prompt,
		Width:           width,
		Height:          height,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		// Submission-time failure: nothing to poll, no job entry is created.
		s.logger.Error("video submission failed", slog.String("error", err.Error()))
		return VideoResponse{Success: false, Status: string(job.StatusFailed), Message: submissionErrorMessage(err)}
	}

	j := job.New(job.KindVideo, s.videoProvider.Name(), req.Prompt)
	if err := j.SetProviderJobID(submission.ProviderJobID); err != nil {
		return VideoResponse{Success: false, Status: string(job.StatusFailed), Message: err.Error()}
	}
	_ = j.Start()
	if err := s.repo.Save(ctx, j); err != nil {
		return VideoResponse{Success: false, Status: string(job.StatusFailed), Message: err.Error()}
	}
	telemetry.JobsSubmitted.WithLabelValues(string(job.KindVideo), s.videoProvider.Name()).Inc()

	// Exactly one supervisor per job; it is the sole writer of terminal
	// fields from here on.
	s.superviseVideo(context.WithoutCancel(ctx), j.ID, submission.ProviderJobID)

	s.logger.Info("video generation started",
		slog.String("job_id", j.ID),
		slog.String("provider_job_id", submission.ProviderJobID),
	)

	return VideoResponse{
		Success: true,
		JobID:   j.ID,
		Status:  string(job.StatusProcessing),
		Message: "Video generation started. Check status for completion.",
	}
}

// VideoStatus reports the state of a video job. Unknown IDs yield a not_found
// response, never an error; reads of a completed job are idempotent.
func (s *Service) VideoStatus(ctx context.Context, jobID string) VideoResponse {
	j, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return VideoResponse{
			Success: false,
			Status:  string(job.StatusNotFound),
			Message: "Job not found",
		}
	}

	switch j.Status {
	case job.StatusCompleted:
		return VideoResponse{
			Success: true,
			JobID:   jobID,
			Status:  string(job.StatusCompleted),
			Video: &GeneratedVideo{
				ID:        jobID,
				URL:       j.ResultURL,
				Prompt:    j.Prompt,
				Model:     j.Provider,
				CreatedAt: j.CreatedAt,
			},
		}
	case job.StatusFailed:
		msg := j.Error
		if msg == "" {
			msg = "Video generation failed"
		}
		return VideoResponse{
			Success: false,
			JobID:   jobID,
			Status:  string(job.StatusFailed),
			Message: msg,
		}
	default:
		return VideoResponse{
			Success: true,
			JobID:   jobID,
			Status:  string(j.Status),
			Message: "Video is still being generated...",
		}
	}
}

// submissionErrorMessage renders a submission-time provider failure for the
// caller. HTTP failures keep the status code visible.
func submissionErrorMessage(err error) string {
	if code := httpx.StatusCode(err); code != 0 {
		return fmt.Sprintf("API error: %d", code)
	}
	return err.Error()
}
