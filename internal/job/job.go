// Package job provides the GenerationJob aggregate shared by image, video and
// presentation generation. It includes the job entity with its status state
// machine and the repository interface used for persistence.
package job

import (
	"errors"
	"sync"
	"time"

	"github.com/artisanstudio/artisan-api/internal/deck"
	"github.com/artisanstudio/artisan-api/internal/job/id"
)

// Kind identifies the media type a job produces.
type Kind string

const (
	// KindImage is a still image generation job.
	KindImage Kind = "image"
	// KindVideo is a video generation job.
	KindVideo Kind = "video"
	// KindPresentation is a multi-slide presentation generation job.
	KindPresentation Kind = "presentation"
)

// Status represents the current state of a Job.
type Status string

const (
	// StatusPending indicates the job has been accepted but not yet submitted.
	StatusPending Status = "pending"
	// StatusProcessing indicates the provider is working on the job.
	StatusProcessing Status = "processing"
	// StatusCompleted indicates the job finished and a result is available.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the job ended with an error.
	StatusFailed Status = "failed"
	// StatusNotFound is synthesized by status queries for unknown job IDs.
	// It is never stored on a job.
	StatusNotFound Status = "not_found"
)

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrProviderJobIDSet is returned when a provider job ID is assigned twice.
var ErrProviderJobIDSet = errors.New("provider job ID already set")

// validTransitions defines which state transitions are allowed. Synchronous
// providers and demo mode complete a job without ever entering processing,
// so pending may transition straight to a terminal state.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

func canTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Job represents one media generation request tracked across its lifetime.
// The polling supervisor is the only writer of terminal fields once the job
// has been handed to it; the orchestrator and status queries only read.
type Job struct {
	mu sync.RWMutex

	// ID is the unique identifier minted at orchestration time.
	ID string
	// Kind is the media type being generated.
	Kind Kind
	// Provider names the backend that handles the job ("demo" in demo mode).
	Provider string
	// Status is the current job state.
	Status Status
	// Prompt is the original text input, retained for response echoing.
	Prompt string
	// ProviderJobID is the provider-side handle used as the polling key.
	// Only asynchronous providers set it; immutable once assigned.
	ProviderJobID string
	// ResultURL is the stored artifact URL. Set at most once, on the
	// transition to completed.
	ResultURL string
	// RevisedPrompt is the provider-rewritten prompt, when reported.
	RevisedPrompt string
	// Error is the failure message. Set at most once, on the transition to
	// failed; mutually exclusive with ResultURL.
	Error string
	// TotalUnits and CompletedUnits track slide-count style progress for
	// presentation jobs. Zero for single-artifact jobs.
	TotalUnits     int
	CompletedUnits int
	// Deck is the finished presentation content. Written once at completion
	// and treated as immutable afterwards.
	Deck *deck.Presentation
	// CreatedAt is when the job was created.
	CreatedAt time.Time
	// UpdatedAt is when the job was last updated.
	UpdatedAt time.Time
}

// New creates a pending Job of the given kind.
func New(kind Kind, provider, prompt string) *Job {
	now := time.Now()
	return &Job{
		ID:        id.Generate(),
		Kind:      kind,
		Provider:  provider,
		Status:    StatusPending,
		Prompt:    prompt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewWithID creates a pending Job with an externally supplied ID.
// Useful for testing or when the ID needs to be minted elsewhere.
func NewWithID(jobID string, kind Kind, provider, prompt string) *Job {
	j := New(kind, provider, prompt)
	j.ID = jobID
	return j
}

// TransitionTo attempts to change the job status.
// Returns ErrInvalidTransition if the transition is not allowed.
func (j *Job) TransitionTo(status Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transitionLocked(status)
}

func (j *Job) transitionLocked(status Status) error {
	if !canTransition(j.Status, status) {
		return ErrInvalidTransition
	}
	j.Status = status
	j.UpdatedAt = time.Now()
	return nil
}

// Start transitions the job from pending to processing.
func (j *Job) Start() error {
	return j.TransitionTo(StatusProcessing)
}

// Complete transitions the job to completed and records the result URL.
// The result URL is immutable after this call.
func (j *Job) Complete(resultURL string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transitionLocked(StatusCompleted); err != nil {
		return err
	}
	j.ResultURL = resultURL
	return nil
}

// Fail transitions the job to failed with an error message.
func (j *Job) Fail(errMsg string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transitionLocked(StatusFailed); err != nil {
		return err
	}
	j.Error = errMsg
	return nil
}

// SetProviderJobID records the provider-side handle. The handle is write-once;
// assigning a second value returns ErrProviderJobIDSet.
func (j *Job) SetProviderJobID(providerJobID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.ProviderJobID != "" {
		return ErrProviderJobIDSet
	}
	j.ProviderJobID = providerJobID
	j.UpdatedAt = time.Now()
	return nil
}

// SetRevisedPrompt records the provider-rewritten prompt.
func (j *Job) SetRevisedPrompt(p string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.RevisedPrompt = p
	j.UpdatedAt = time.Now()
}

// SetUnits records slide-count style progress.
func (j *Job) SetUnits(total, completed int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.TotalUnits = total
	j.CompletedUnits = completed
	j.UpdatedAt = time.Now()
}

// SetDeck attaches the finished presentation content.
func (j *Job) SetDeck(d *deck.Presentation) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Deck = d
	j.UpdatedAt = time.Now()
}

// GetStatus returns the current job status (thread-safe).
func (j *Job) GetStatus() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// IsTerminal returns true if the job is in a terminal state.
func (j *Job) IsTerminal() bool {
	return j.GetStatus().IsTerminal()
}

// Clone creates a copy of the job for safe reads. The Deck pointer is shared;
// decks are written once at completion and never mutated afterwards.
func (j *Job) Clone() *Job {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return &Job{
		ID:             j.ID,
		Kind:           j.Kind,
		Provider:       j.Provider,
		Status:         j.Status,
		Prompt:         j.Prompt,
		ProviderJobID:  j.ProviderJobID,
		ResultURL:      j.ResultURL,
		RevisedPrompt:  j.RevisedPrompt,
		Error:          j.Error,
		TotalUnits:     j.TotalUnits,
		CompletedUnits: j.CompletedUnits,
		Deck:           j.Deck,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}
