package generation

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/artisanstudio/artisan-api/internal/chat"
	"github.com/artisanstudio/artisan-api/internal/deck"
	"github.com/artisanstudio/artisan-api/internal/httpx"
	"github.com/artisanstudio/artisan-api/internal/job"
	"github.com/artisanstudio/artisan-api/internal/job/id"
	"github.com/artisanstudio/artisan-api/internal/storage"
	"github.com/artisanstudio/artisan-api/internal/telemetry"
)

// DeckBuilder produces presentation content from a deck request. The chat
// backed builder calls the completion API; demo mode uses no builder at all.
type DeckBuilder interface {
	// Build returns the finished deck. It may fall back to demo content on
	// recoverable provider errors.
	Build(ctx context.Context, req deck.Request, deckID string) (*deck.Presentation, error)
}

// ChatDeckBuilder builds decks through the chat completions API, mirroring
// the generation rules into the system prompt and parsing the JSON answer.
type ChatDeckBuilder struct {
	client chat.Client
	logger *slog.Logger
}

// NewChatDeckBuilder creates a chat-backed deck builder.
func NewChatDeckBuilder(client chat.Client, logger *slog.Logger) *ChatDeckBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatDeckBuilder{client: client, logger: logger}
}

// Build generates deck content with the chat model. Provider-side rejections
// and unparseable answers degrade to the demo deck rather than failing the
// job; only transport-level errors propagate.
func (b *ChatDeckBuilder) Build(ctx context.Context, req deck.Request, deckID string) (*deck.Presentation, error) {
	raw, err := b.client.CompleteJSON(ctx, deck.SystemPrompt(req), deck.UserPrompt(req))
	if err != nil {
		if code := httpx.StatusCode(err); code != 0 {
			b.logger.Warn("chat API rejected deck request, falling back to demo deck",
				slog.Int("status", code),
			)
			return deck.Demo(req), nil
		}
		return nil, err
	}

	p, err := deck.Parse(raw, req, deckID)
	if err != nil {
		b.logger.Warn("unparseable deck content, falling back to demo deck",
			slog.String("error", err.Error()),
		)
		return deck.Demo(req), nil
	}
	return p, nil
}

// GeneratePresentation registers a presentation job and builds the deck in
// the background, following the same job pattern as asynchronous media
// generation. Progress is exposed as slide counters.
func (s *Service) GeneratePresentation(ctx context.Context, req deck.Request) PresentationResponse {
	if req.SlideCount <= 0 {
		req.SlideCount = 8
	}

	providerName := ProviderDemo
	if s.deckBuilder != nil {
		providerName = "gpt-4o"
	}

	j := job.NewWithID(id.Deck(), job.KindPresentation, providerName, req.Prompt)
	j.SetUnits(req.SlideCount, 0)
	_ = j.Start()
	if err := s.repo.Save(ctx, j); err != nil {
		return PresentationResponse{Success: false, Status: string(job.StatusFailed), Message: err.Error()}
	}
	telemetry.JobsSubmitted.WithLabelValues(string(job.KindPresentation), providerName).Inc()

	s.logger.Info("presentation generation started",
		slog.String("job_id", j.ID),
		slog.Int("slide_count", req.SlideCount),
	)

	s.supervisors.Go(s.logger, j.ID, func() {
		s.buildDeck(context.WithoutCancel(ctx), j.ID, req)
	})

	return PresentationResponse{
		Success:         true,
		ID:              j.ID,
		Status:          string(job.StatusProcessing),
		TotalSlides:     req.SlideCount,
		CompletedSlides: 0,
		Message:         "Presentation generation started",
	}
}

func (s *Service) buildDeck(ctx context.Context, jobID string, req deck.Request) {
	var (
		d   *deck.Presentation
		err error
	)
	if s.deckBuilder == nil {
		d = deck.Demo(req)
		d.ID = jobID
	} else {
		d, err = s.deckBuilder.Build(ctx, req, jobID)
	}
	if err != nil {
		s.logger.Error("deck build failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		s.failDeck(ctx, jobID, "Failed to generate presentation content")
		return
	}

	encoded, err := json.Marshal(d)
	if err != nil {
		s.failDeck(ctx, jobID, "Failed to encode presentation content")
		return
	}
	storedURL, err := s.store.Save(ctx, storage.CategoryDecks, jobID+".json", encoded)
	if err != nil {
		s.logger.Error("deck save failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		s.failDeck(ctx, jobID, "Failed to store presentation content")
		return
	}

	j, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return
	}
	j.SetDeck(d)
	j.SetUnits(j.TotalUnits, len(d.Slides))
	if err := j.Complete(storedURL); err != nil {
		return
	}
	if err := s.repo.Save(ctx, j); err != nil {
		s.logger.Error("job update failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	telemetry.JobsCompleted.WithLabelValues(string(j.Kind), j.Provider).Inc()
	s.logger.Info("presentation completed",
		slog.String("job_id", jobID),
		slog.Int("slides", len(d.Slides)),
	)
}

func (s *Service) failDeck(ctx context.Context, jobID, msg string) {
	j, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return
	}
	if err := j.Fail(msg); err != nil {
		return
	}
	if err := s.repo.Save(ctx, j); err != nil {
		return
	}
	telemetry.JobsFailed.WithLabelValues(string(j.Kind), j.Provider, "provider").Inc()
}

// PresentationStatus reports the state of a presentation job with its slide
// counters. Unknown IDs yield a not_found response, never an error.
func (s *Service) PresentationStatus(ctx context.Context, deckID string) PresentationResponse {
	j, err := s.repo.FindByID(ctx, deckID)
	if err != nil || j.Kind != job.KindPresentation {
		return PresentationResponse{
			Success: false,
			Status:  string(job.StatusNotFound),
			Message: "Presentation not found",
		}
	}

	resp := PresentationResponse{
		Success:         j.Status != job.StatusFailed,
		ID:              deckID,
		Status:          string(j.Status),
		TotalSlides:     j.TotalUnits,
		CompletedSlides: j.CompletedUnits,
		Message:         j.Error,
	}
	if j.Status == job.StatusCompleted {
		resp.Presentation = j.Deck
	}
	return resp
}

// Presentation returns a finished deck, or nil when the job is unknown or
// not yet completed.
func (s *Service) Presentation(ctx context.Context, deckID string) *deck.Presentation {
	j, err := s.repo.FindByID(ctx, deckID)
	if err != nil {
		return nil
	}
	return j.Deck
}
