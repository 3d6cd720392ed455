package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artisanstudio/artisan-api/internal/httpx"
)

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("", "key", "gpt-4o"); err != ErrEndpointRequired {
		t.Errorf("expected ErrEndpointRequired, got %v", err)
	}
	if _, err := NewClient("https://example.openai.azure.com", "", "gpt-4o"); err != ErrAPIKeyRequired {
		t.Errorf("expected ErrAPIKeyRequired, got %v", err)
	}
}

func TestClient_CompleteJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api-key"); got != "test-key" {
			t.Errorf("expected api-key header, got %q", got)
		}
		if !strings.Contains(r.URL.Path, "/openai/deployments/gpt-4o/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var payload struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" || payload.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %v", payload.Messages)
		}
		if payload.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %q", payload.ResponseFormat.Type)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"title":"Deck"}`}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "test-key", "gpt-4o")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	raw, err := c.CompleteJSON(context.Background(), "you are a deck writer", "make a deck")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if string(raw) != `{"title":"Deck"}` {
		t.Errorf("unexpected content %q", raw)
	}
}

func TestClient_CompleteJSON_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "k", "")
	_, err := c.CompleteJSON(context.Background(), "s", "u")
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestClient_CompleteJSON_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "k", "gpt-4o", httpx.WithMaxRetries(0))
	_, err := c.CompleteJSON(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error")
	}
	if httpx.StatusCode(err) != http.StatusTooManyRequests {
		t.Errorf("expected status 429 in chain, got %d", httpx.StatusCode(err))
	}
}
