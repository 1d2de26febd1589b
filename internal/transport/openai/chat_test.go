package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// chatRequest mirrors the OpenAI-compatible chat completion request body.
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func chatReply(text string, promptTokens, completionTokens int) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": text},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
			"total_tokens":      promptTokens + completionTokens,
		},
	}
}

func TestChatClient_Complete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatReply("Te recomiendo Portal 2.", 120, 8))
	}))
	defer server.Close()

	c := NewChatClient(&ChatConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "remote",
		Timeout:  5 * time.Second,
		Logger:   zap.NewNop(),
	})

	params := domain.DefaultGenerationParams()
	completion, err := c.Complete(context.Background(), "sistema", "usuario", params)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if completion.Text != "Te recomiendo Portal 2." {
		t.Errorf("unexpected text %q", completion.Text)
	}
	if completion.PromptTokens != 120 || completion.CompletionTokens != 8 {
		t.Errorf("unexpected usage in=%d out=%d", completion.PromptTokens, completion.CompletionTokens)
	}

	if got.Model != "test-model" {
		t.Errorf("unexpected model %q", got.Model)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != "sistema" {
		t.Errorf("unexpected system message %+v", got.Messages[0])
	}
	if got.Messages[1].Role != "user" || got.Messages[1].Content != "usuario" {
		t.Errorf("unexpected user message %+v", got.Messages[1])
	}
	if got.Temperature != params.Temperature {
		t.Errorf("temperature not forwarded: %v", got.Temperature)
	}
	if got.MaxTokens != params.MaxTokens {
		t.Errorf("max_tokens not forwarded: %d", got.MaxTokens)
	}
}

func TestChatClient_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := chatReply("", 0, 0)
		reply["choices"] = []map[string]any{}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}))
	defer server.Close()

	c := NewChatClient(&ChatConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "remote",
		Logger:   zap.NewNop(),
	})

	_, err := c.Complete(context.Background(), "s", "u", domain.DefaultGenerationParams())
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed for empty choices, got %v", err)
	}
}

func TestChatClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded", "type": "server_error"},
		})
	}))
	defer server.Close()

	c := NewChatClient(&ChatConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "local",
		Logger:   zap.NewNop(),
	})

	_, err := c.Complete(context.Background(), "s", "u", domain.DefaultGenerationParams())
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Errorf("expected wrapped ErrGenerationFailed, got %v", err)
	}
}

func TestChatClient_Identity(t *testing.T) {
	c := NewChatClient(&ChatConfig{Model: "m", Provider: "local", Logger: zap.NewNop()})
	if c.Name() != "local" || c.Model() != "m" {
		t.Errorf("unexpected identity %s/%s", c.Name(), c.Model())
	}
}
