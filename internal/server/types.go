// Package server provides the HTTP server for the media generation API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// GenerateImageRequest is the HTTP request body for image generation.
type GenerateImageRequest struct {
	// Prompt is the text description of the desired image.
	Prompt string `json:"prompt" validate:"required,min=1,max=4000"`
	// Size is the output resolution, e.g. "1024x1024".
	Size string `json:"size,omitempty" validate:"omitempty,oneof=1024x1024 1792x1024 1024x1792"`
	// Quality selects the rendering quality tier.
	Quality string `json:"quality,omitempty" validate:"omitempty,oneof=standard hd"`
	// Style selects the rendering style.
	Style string `json:"style,omitempty" validate:"omitempty,oneof=vivid natural"`
}

// GenerateVideoRequest is the HTTP request body for video generation.
type GenerateVideoRequest struct {
	// Prompt is the text description of the desired video.
	Prompt string `json:"prompt" validate:"required,min=1,max=4000"`
	// DurationSeconds is the requested clip length.
	DurationSeconds int `json:"duration_seconds,omitempty" validate:"omitempty,min=1,max=60"`
	// AspectRatio selects the output dimensions.
	AspectRatio string `json:"aspect_ratio,omitempty" validate:"omitempty,oneof=16:9 9:16 1:1"`
}

// GeneratePresentationRequest is the HTTP request body for presentation
// generation.
type GeneratePresentationRequest struct {
	// Prompt is the topic description for the deck.
	Prompt string `json:"prompt" validate:"required,min=1,max=4000"`
	// SlideCount is the requested number of slides.
	SlideCount int `json:"slide_count,omitempty" validate:"omitempty,min=1,max=30"`
	// Template selects the visual template.
	Template string `json:"template,omitempty"`
	// Style selects the content tone.
	Style string `json:"style,omitempty"`
	// AspectRatio selects slide dimensions, e.g. "16:9".
	AspectRatio string `json:"aspect_ratio,omitempty"`
	// Language selects the content language, e.g. "en" or "he".
	Language string `json:"language,omitempty"`
	// ChartStyle selects the appearance of generated charts.
	ChartStyle string `json:"chart_style,omitempty"`
	// DiagramType selects the kind of generated diagrams.
	DiagramType string `json:"diagram_type,omitempty"`
	// IncludeCharts requests chart slides.
	IncludeCharts bool `json:"include_charts,omitempty"`
	// IncludeDiagrams requests diagram slides.
	IncludeDiagrams bool `json:"include_diagrams,omitempty"`
	// IncludeSpeakerNotes requests speaker notes on each slide.
	IncludeSpeakerNotes bool `json:"include_speaker_notes,omitempty"`
}

// EnhancePromptRequest is the HTTP request body for prompt enhancement.
type EnhancePromptRequest struct {
	// Prompt is the original user prompt to enrich.
	Prompt string `json:"prompt" validate:"required,min=1,max=4000"`
	// MediaType selects the enhancement rules, "image" or "video".
	MediaType string `json:"media_type,omitempty" validate:"omitempty,oneof=image video"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
	// Providers reports which generation backends run live versus demo.
	Providers map[string]string `json:"providers"`
}
