package generation

import (
	"time"

	"github.com/artisanstudio/artisan-api/internal/deck"
)

// ImageRequest carries the image generation parameters.
// Prompt is validated (non-empty after trim) by the HTTP boundary.
type ImageRequest struct {
	Prompt  string
	Size    string // default "1024x1024"
	Quality string // default "standard"
	Style   string // default "vivid"
}

// GeneratedImage is one finished image in a response.
type GeneratedImage struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Prompt        string    `json:"prompt"`
	RevisedPrompt string    `json:"revised_prompt,omitempty"`
	Model         string    `json:"model"`
	CreatedAt     time.Time `json:"created_at"`
}

// ImageResponse is the outcome of an image generation call.
type ImageResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	JobID   string           `json:"job_id,omitempty"`
	Status  string           `json:"status,omitempty"`
	Images  []GeneratedImage `json:"images,omitempty"`
}

// VideoRequest carries the video generation parameters.
type VideoRequest struct {
	Prompt          string
	DurationSeconds int    // default 5
	AspectRatio     string // "16:9" (default), "9:16" or "1:1"
}

// Dimensions maps the aspect ratio onto provider pixel dimensions.
func (r VideoRequest) Dimensions() (width, height int) {
	switch r.AspectRatio {
	case "9:16":
		return 1080, 1920
	case "1:1":
		return 1080, 1080
	default:
		return 1920, 1080
	}
}

// GeneratedVideo is a finished video in a response.
type GeneratedVideo struct {
	ID              string    `json:"id"`
	URL             string    `json:"url"`
	Prompt          string    `json:"prompt"`
	Model           string    `json:"model"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// VideoResponse is the outcome of a video generation or status call.
type VideoResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	JobID   string          `json:"job_id,omitempty"`
	Status  string          `json:"status"`
	Video   *GeneratedVideo `json:"video,omitempty"`
}

// PresentationResponse is the outcome of a presentation generation or status
// call.
type PresentationResponse struct {
	Success         bool               `json:"success"`
	ID              string             `json:"id,omitempty"`
	Status          string             `json:"status"`
	TotalSlides     int                `json:"total_slides,omitempty"`
	CompletedSlides int                `json:"completed_slides"`
	Message         string             `json:"message,omitempty"`
	Presentation    *deck.Presentation `json:"presentation,omitempty"`
}
