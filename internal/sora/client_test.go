package sora

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStatus_Classification(t *testing.T) {
	tests := []struct {
		status  Status
		success bool
		failure bool
	}{
		{StatusQueued, false, false},
		{StatusPreprocessing, false, false},
		{StatusRunning, false, false},
		{StatusProcessing, false, false},
		{StatusSucceeded, true, false},
		{StatusCompleted, true, false},
		{StatusFailed, false, true},
		{StatusCancelled, false, true},
		{Status("unknown"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsSuccess(); got != tt.success {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.success)
			}
			if got := tt.status.IsFailure(); got != tt.failure {
				t.Errorf("IsFailure() = %v, want %v", got, tt.failure)
			}
			if got := tt.status.IsTerminal(); got != (tt.success || tt.failure) {
				t.Errorf("IsTerminal() = %v", got)
			}
		})
	}
}

func TestClient_Submit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Api-key"); got != "test-key" {
			t.Errorf("expected Api-key header, got %q", got)
		}
		if !strings.HasPrefix(r.URL.Path, "/openai/v1/video/generations/jobs") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["model"] != "sora" {
			t.Errorf("expected model sora, got %q", payload["model"])
		}
		if payload["width"] != "1920" || payload["height"] != "1080" {
			t.Errorf("dimensions must be strings, got %v", payload)
		}
		if payload["n_seconds"] != "5" || payload["n_variants"] != "1" {
			t.Errorf("unexpected n_seconds/n_variants: %v", payload)
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "task-42", "status": "queued"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "test-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	jobID, err := c.Submit(context.Background(), Request{
		Prompt:          "waves at dawn",
		Width:           1920,
		Height:          1080,
		DurationSeconds: 5,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if jobID != "task-42" {
		t.Errorf("expected job ID task-42, got %s", jobID)
	}
}

func TestClient_Submit_NoJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "k")
	_, err := c.Submit(context.Background(), Request{Prompt: "p"})
	if !errors.Is(err, ErrNoJobIDReturned) {
		t.Errorf("expected ErrNoJobIDReturned, got %v", err)
	}
}

func TestClient_Poll(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus Status
		wantError  string
	}{
		{
			name:       "running",
			body:       `{"status":"Running"}`,
			wantStatus: StatusRunning,
		},
		{
			name:       "succeeded uppercase",
			body:       `{"status":"SUCCEEDED"}`,
			wantStatus: StatusSucceeded,
		},
		{
			name:       "failed with string error",
			body:       `{"status":"failed","error":"content policy violation"}`,
			wantStatus: StatusFailed,
			wantError:  "content policy violation",
		},
		{
			name:       "failed with object error",
			body:       `{"status":"failed","error":{"code":"bad","message":"unsafe prompt"}}`,
			wantStatus: StatusFailed,
			wantError:  "unsafe prompt",
		},
		{
			name:       "cancelled",
			body:       `{"status":"cancelled"}`,
			wantStatus: StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.Contains(r.URL.Path, "/jobs/task-1") {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c, _ := NewClient(srv.URL, "k")
			res, err := c.Poll(context.Background(), "task-1")
			if err != nil {
				t.Fatalf("poll failed: %v", err)
			}
			if res.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, res.Status)
			}
			if res.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, res.Error)
			}
			if len(res.Raw) == 0 {
				t.Error("expected raw payload to be preserved")
			}
		})
	}
}

func TestClient_Poll_EmptyJobID(t *testing.T) {
	c, _ := NewClient("https://example.openai.azure.com", "k")
	if _, err := c.Poll(context.Background(), ""); err != ErrJobIDRequired {
		t.Errorf("expected ErrJobIDRequired, got %v", err)
	}
}

func TestClient_FetchContent_VideoEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/content/video") {
			w.Header().Set("Content-Type", "video/mp4")
			_, _ = w.Write([]byte("mp4-bytes"))
			return
		}
		t.Errorf("generic endpoint should not be reached, path %s", r.URL.Path)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "k")
	data, err := c.FetchContent(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("fetch content failed: %v", err)
	}
	if string(data) != "mp4-bytes" {
		t.Errorf("unexpected payload %q", data)
	}
}

func TestClient_FetchContent_GenericFallbackVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/content/video") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/content") {
			w.Header().Set("Content-Type", "video/mp4")
			_, _ = w.Write([]byte("fallback-bytes"))
			return
		}
		t.Errorf("unexpected path %s", r.URL.Path)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "k")
	data, err := c.FetchContent(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("fetch content failed: %v", err)
	}
	if string(data) != "fallback-bytes" {
		t.Errorf("unexpected payload %q", data)
	}
}

func TestClient_FetchContent_JSONPointer(t *testing.T) {
	var artifact *httptest.Server
	artifact = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("downloaded-bytes"))
	}))
	defer artifact.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/content/video") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"url":%q}`, artifact.URL)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "k")
	data, err := c.FetchContent(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("fetch content failed: %v", err)
	}
	if string(data) != "downloaded-bytes" {
		t.Errorf("unexpected payload %q", data)
	}
}

func TestClient_FetchContent_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/content/video") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"succeeded"}`)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "k")
	_, err := c.FetchContent(context.Background(), "task-1")
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}
