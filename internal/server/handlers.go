package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/artisanstudio/artisan-api/internal/deck"
	"github.com/artisanstudio/artisan-api/internal/generation"
	"github.com/artisanstudio/artisan-api/internal/job"
	"github.com/artisanstudio/artisan-api/internal/prompt"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   *generation.Service
	validator *validator.Validate
	logger    *slog.Logger
	providers map[string]string
}

// NewHandlers creates a new Handlers instance. providers maps media kind to
// the backing provider name and is reported by the health endpoint.
func NewHandlers(service *generation.Service, logger *slog.Logger, providers map[string]string) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if providers == nil {
		providers = map[string]string{}
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
		providers: providers,
	}
}

// Health handles GET /api/health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Providers: h.providers})
}

// GenerateImage handles POST /api/images/generate requests.
func (h *Handlers) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp := h.service.GenerateImage(r.Context(), generation.ImageRequest{
		Prompt:  strings.TrimSpace(req.Prompt),
		Size:    req.Size,
		Quality: req.Quality,
		Style:   req.Style,
	})
	if !resp.Success {
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GenerateVideo handles POST /api/videos/generate requests.
func (h *Handlers) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req GenerateVideoRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp := h.service.GenerateVideo(r.Context(), generation.VideoRequest{
		Prompt:          strings.TrimSpace(req.Prompt),
		DurationSeconds: req.DurationSeconds,
		AspectRatio:     req.AspectRatio,
	})
	if !resp.Success {
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// VideoStatus handles GET /api/videos/status/{jobId} requests.
func (h *Handlers) VideoStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	resp := h.service.VideoStatus(r.Context(), jobID)
	if resp.Status == string(job.StatusNotFound) {
		writeJSON(w, http.StatusNotFound, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GeneratePresentation handles POST /api/presentations/generate requests.
func (h *Handlers) GeneratePresentation(w http.ResponseWriter, r *http.Request) {
	var req GeneratePresentationRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp := h.service.GeneratePresentation(r.Context(), deck.Request{
		Prompt:              strings.TrimSpace(req.Prompt),
		SlideCount:          req.SlideCount,
		Template:            req.Template,
		Style:               req.Style,
		AspectRatio:         req.AspectRatio,
		Language:            req.Language,
		ChartStyle:          req.ChartStyle,
		DiagramType:         req.DiagramType,
		IncludeCharts:       req.IncludeCharts,
		IncludeDiagrams:     req.IncludeDiagrams,
		IncludeSpeakerNotes: req.IncludeSpeakerNotes,
	})
	if !resp.Success {
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// PresentationStatus handles GET /api/presentations/status/{id} requests.
func (h *Handlers) PresentationStatus(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "id")
	resp := h.service.PresentationStatus(r.Context(), deckID)
	if resp.Status == string(job.StatusNotFound) {
		writeJSON(w, http.StatusNotFound, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPresentation handles GET /api/presentations/{id} requests. It returns
// the finished deck content only.
func (h *Handlers) GetPresentation(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "id")
	p := h.service.Presentation(r.Context(), deckID)
	if p == nil {
		writeError(w, http.StatusNotFound, "presentation not found", "PRESENTATION_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// EnhancePrompt handles POST /api/prompts/enhance requests.
func (h *Handlers) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	var req EnhancePromptRequest
	if !h.decode(w, r, &req) {
		return
	}
	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = "image"
	}
	writeJSON(w, http.StatusOK, prompt.Enhance(strings.TrimSpace(req.Prompt), mediaType))
}

// decode parses and validates a JSON request body, writing the error
// response itself on failure.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return false
	}
	return true
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
