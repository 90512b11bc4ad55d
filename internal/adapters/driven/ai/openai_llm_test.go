package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
)

func TestNewOpenAILLM_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAILLM(LLMConfig{})
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewOpenAILLM_Defaults(t *testing.T) {
	svc, err := NewOpenAILLM(LLMConfig{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.model != DefaultLLMModel {
		t.Errorf("expected default model %s, got %s", DefaultLLMModel, svc.model)
	}
	if svc.baseURL != "https://api.openai.com/v1" {
		t.Errorf("expected default base URL, got %s", svc.baseURL)
	}
	if svc.Model() != DefaultLLMModel {
		t.Errorf("expected Model() %s, got %s", DefaultLLMModel, svc.Model())
	}
}

func completionHandler(t *testing.T, reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Error("expected Authorization header")
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("expected system and user messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected message roles: %s, %s", req.Messages[0].Role, req.Messages[1].Role)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{
					"message":       map[string]string{"role": "assistant", "content": reply},
					"finish_reason": "stop",
				},
			},
		})
	}
}

func TestOpenAILLM_Complete_Success(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "Revenue grew 15% in Q2."))
	defer server.Close()

	svc, err := NewOpenAILLM(LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Complete(context.Background(), "Answer from context only.", "What happened to revenue?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Revenue grew 15% in Q2." {
		t.Errorf("unexpected completion: %q", got)
	}
}

func TestOpenAILLM_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	svc, err := NewOpenAILLM(LLMConfig{APIKey: "sk-invalid", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Complete(context.Background(), "sys", "user")
	if err == nil {
		t.Fatal("expected error for API error response")
	}
	if domain.IsRetryable(err) {
		t.Error("a rejected API key must not be retryable")
	}
}

func TestOpenAILLM_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc, err := NewOpenAILLM(LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Complete(context.Background(), "sys", "user")
	if !domain.IsRetryable(err) {
		t.Errorf("expected server error to be retryable, got %v", err)
	}
}

func TestOpenAILLM_Complete_NetworkError(t *testing.T) {
	svc, err := NewOpenAILLM(LLMConfig{APIKey: "sk-test", BaseURL: "http://localhost:99999"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Complete(context.Background(), "sys", "user")
	if !domain.IsRetryable(err) {
		t.Errorf("expected network error to be retryable, got %v", err)
	}
}

func TestOpenAILLM_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	svc, err := NewOpenAILLM(LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Complete(context.Background(), "sys", "user")
	if err == nil {
		t.Error("expected error when no choices are returned")
	}
}

func TestOpenAILLM_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("expected /models, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Error("expected Authorization header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": []}`))
	}))
	defer server.Close()

	svc, err := NewOpenAILLM(LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Ping(context.Background()); err != nil {
		t.Errorf("expected successful ping, got %v", err)
	}
}
