package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/artisanstudio/artisan-api/internal/telemetry"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
	// MediaDir is the local directory served under /media. Empty disables
	// static file serving (S3-backed storage).
	MediaDir string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/images/generate", h.GenerateImage)
		r.Post("/videos/generate", h.GenerateVideo)
		r.Get("/videos/status/{jobId}", h.VideoStatus)
		r.Post("/presentations/generate", h.GeneratePresentation)
		r.Get("/presentations/status/{id}", h.PresentationStatus)
		r.Get("/presentations/{id}", h.GetPresentation)
		r.Post("/prompts/enhance", h.EnhancePrompt)
	})

	r.Handle("/metrics", telemetry.Handler())

	if cfg.MediaDir != "" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir)))
		r.Get("/media/*", fs.ServeHTTP)
	}

	return r
}
