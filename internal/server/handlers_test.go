package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanstudio/artisan-api/internal/generation"
	"github.com/artisanstudio/artisan-api/internal/job"
)

// memStorage implements storage.Storage in memory for handler tests.
type memStorage struct{}

func (memStorage) Save(_ context.Context, category, filename string, _ []byte) (string, error) {
	return "/media/" + category + "/" + filename, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestRouter builds a router over a demo-mode service.
func newTestRouter(t *testing.T) (http.Handler, *generation.Service) {
	t.Helper()
	svc := generation.NewService(job.NewMemoryRepository(), memStorage{}, testLogger())
	h := NewHandlers(svc, testLogger(), map[string]string{
		"image":        "demo",
		"video":        "demo",
		"presentation": "demo",
	})
	return NewRouter(h, testLogger(), DefaultConfig()), svc
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "demo", resp.Providers["image"])
}

func TestGenerateImage(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/images/generate",
		GenerateImageRequest{Prompt: "a lighthouse at dusk"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp generation.ImageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, string(job.StatusCompleted), resp.Status)
	require.Len(t, resp.Images, 1)
	assert.NotEmpty(t, resp.Images[0].URL)
}

func TestGenerateImage_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing prompt", GenerateImageRequest{}},
		{"bad size", GenerateImageRequest{Prompt: "p", Size: "640x480"}},
		{"bad quality", GenerateImageRequest{Prompt: "p", Quality: "ultra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/images/generate", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Code)
		})
	}
}

func TestGenerateImage_InvalidJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/images/generate",
		bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "INVALID_JSON", resp.Code)
}

func TestGenerateVideoAndStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/videos/generate",
		GenerateVideoRequest{Prompt: "waves", AspectRatio: "9:16"})

	// Demo mode completes immediately; the handler still answers 202 for
	// accepted submissions.
	require.Equal(t, http.StatusAccepted, rec.Code)
	var created generation.VideoResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.True(t, created.Success)
	require.NotEmpty(t, created.JobID)

	status := doJSON(t, router, http.MethodGet, "/api/videos/status/"+created.JobID, nil)
	require.Equal(t, http.StatusOK, status.Code)
	var resp generation.VideoResponse
	require.NoError(t, json.NewDecoder(status.Body).Decode(&resp))
	assert.Equal(t, string(job.StatusCompleted), resp.Status)
	require.NotNil(t, resp.Video)
}

func TestVideoStatus_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/videos/status/job-missing", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp generation.VideoResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, string(job.StatusNotFound), resp.Status)
}

func TestGeneratePresentationFlow(t *testing.T) {
	router, svc := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/presentations/generate",
		GeneratePresentationRequest{Prompt: "quarterly review", SlideCount: 5})

	require.Equal(t, http.StatusAccepted, rec.Code)
	var created generation.PresentationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.True(t, created.Success)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 5, created.TotalSlides)

	svc.Wait()

	status := doJSON(t, router, http.MethodGet, "/api/presentations/status/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status.Code)
	var resp generation.PresentationResponse
	require.NoError(t, json.NewDecoder(status.Body).Decode(&resp))
	assert.Equal(t, string(job.StatusCompleted), resp.Status)
	require.NotNil(t, resp.Presentation)

	full := doJSON(t, router, http.MethodGet, "/api/presentations/"+created.ID, nil)
	require.Equal(t, http.StatusOK, full.Code)
}

func TestGetPresentation_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/presentations/pres_missing", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "PRESENTATION_NOT_FOUND", resp.Code)
}

func TestEnhancePrompt(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/prompts/enhance",
		EnhancePromptRequest{Prompt: "a cat", MediaType: "image"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		OriginalPrompt string   `json:"original_prompt"`
		EnhancedPrompt string   `json:"enhanced_prompt"`
		Suggestions    []string `json:"suggestions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "a cat", resp.OriginalPrompt)
	assert.NotEqual(t, resp.OriginalPrompt, resp.EnhancedPrompt)
	assert.NotEmpty(t, resp.Suggestions)
}

func TestEnhancePrompt_BadMediaType(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/prompts/enhance",
		EnhancePromptRequest{Prompt: "a cat", MediaType: "audio"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/images/generate", nil)
	req.Header.Set("Origin", "https://studio.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://studio.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	// Generate once so the counter vec has at least one series.
	doJSON(t, router, http.MethodPost, "/api/images/generate",
		GenerateImageRequest{Prompt: "a cat"})

	rec := doJSON(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "generation_jobs_submitted_total")
}
