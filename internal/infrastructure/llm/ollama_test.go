package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockNews/internal/config"
)

func TestChat(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Errorf("streaming must be disabled")
		}
		if req.Model != "gemma3:4b" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "hello" {
			t.Errorf("messages = %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "  world  "},
		})
	}))
	defer server.Close()

	client := NewClient(config.OllamaConfig{BaseURL: server.URL, Model: "gemma3:4b"})
	got, err := client.Chat(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "world" {
		t.Fatalf("Chat = %q, want trimmed reply", got)
	}
}

func TestChatServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(config.OllamaConfig{BaseURL: server.URL, Model: "missing"})
	if _, err := client.Chat(context.Background(), "hello"); err == nil {
		t.Fatalf("Chat should surface non-200 responses")
	}
}

func TestChatMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewClient(config.OllamaConfig{})
	if _, err := client.Chat(context.Background(), "hello"); err == nil {
		t.Fatalf("Chat without model/base URL should fail fast")
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(config.OllamaConfig{BaseURL: server.URL, Model: "gemma3:4b"})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	server.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("Ping against a closed server should fail")
	}
}
