package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAICompatGeneratorGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var req oaiChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  generated answer  "}},
			},
		})
	}))
	defer server.Close()

	g := NewOpenAICompatGenerator(server.URL, "test-key", "test-model")
	text, err := g.GenerateText(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "generated answer" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestOpenAICompatGeneratorAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "quota exceeded", "type": "rate_limit"},
		})
	}))
	defer server.Close()

	g := NewOpenAICompatGenerator(server.URL, "", "test-model")
	_, err := g.GenerateText(context.Background(), "", "user prompt")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); got != "openai-compat api error: quota exceeded" {
		t.Errorf("unexpected error %q", got)
	}
}

func TestOpenAICompatGeneratorRequiresModel(t *testing.T) {
	g := NewOpenAICompatGenerator("http://localhost:1", "", "")
	if _, err := g.GenerateText(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected an error for missing model")
	}
}

func TestNewGeneratorFromEnvUnset(t *testing.T) {
	t.Setenv("AI_VENDOR", "")
	if g := NewGeneratorFromEnv(); g != nil {
		t.Fatalf("expected nil generator, got %T", g)
	}
}
