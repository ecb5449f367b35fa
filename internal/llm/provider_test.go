package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		provider string
		wantErr  bool
	}{
		{"gemini", false},
		{"Gemini", false},
		{"openai", false},
		{"anthropic", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := NewProvider(Config{Provider: tt.provider, Model: "m"})
		if (err != nil) != tt.wantErr {
			t.Errorf("NewProvider(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
		}
	}
}

func TestGeminiComplete(t *testing.T) {
	t.Parallel()

	errCh := make(chan error, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-pro:generateContent" {
			errCh <- fmt.Errorf("unexpected path %s", r.URL.Path)
			return
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			errCh <- fmt.Errorf("expected api key header, got %q", r.Header.Get("x-goog-api-key"))
			return
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errCh <- fmt.Errorf("decode request: %w", err)
			return
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "You research news." {
			errCh <- fmt.Errorf("system prompt not mapped to systemInstruction: %+v", req.SystemInstruction)
			return
		}
		if len(req.Contents) != 2 {
			errCh <- fmt.Errorf("expected 2 turns, got %d", len(req.Contents))
			return
		}
		if req.Contents[1].Role != "model" {
			errCh <- fmt.Errorf("assistant turn should map to model role, got %q", req.Contents[1].Role)
			return
		}
		if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens != 256 {
			errCh <- fmt.Errorf("generation config not forwarded: %+v", req.GenerationConfig)
			return
		}

		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Top story: "},{"text":"chips"}]},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	provider := NewGeminiProvider(Config{
		APIURL:      server.URL,
		APIKey:      "test-key",
		Model:       "gemini-pro",
		MaxTokens:   256,
		Temperature: 0.7,
	})

	out, err := provider.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You research news."},
		{Role: RoleUser, Content: "find stories"},
		{Role: RoleAssistant, Content: "ack"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	select {
	case err := <-errCh:
		t.Fatalf("handler error: %v", err)
	default:
	}
	if out != "Top story: chips" {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestGeminiCompleteRequiresModel(t *testing.T) {
	t.Parallel()

	provider := NewGeminiProvider(Config{APIKey: "k"})
	if _, err := provider.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestGeminiCompleteErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
	}))
	defer server.Close()

	provider := NewGeminiProvider(Config{APIURL: server.URL, APIKey: "k", Model: "gemini-pro"})
	_, err := provider.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected body excerpt in error, got %v", err)
	}
}

func TestOpenAIComplete(t *testing.T) {
	t.Parallel()

	errCh := make(chan error, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			errCh <- fmt.Errorf("unexpected path %s", r.URL.Path)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			errCh <- fmt.Errorf("expected auth header, got %q", r.Header.Get("Authorization"))
			return
		}
		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errCh <- fmt.Errorf("decode request: %w", err)
			return
		}
		if req.Model != "gpt-test" {
			errCh <- fmt.Errorf("unexpected model %q", req.Model)
			return
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != RoleSystem {
			errCh <- fmt.Errorf("messages not forwarded: %+v", req.Messages)
			return
		}

		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"drafted post"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{
		APIURL: server.URL,
		APIKey: "test-key",
		Model:  "gpt-test",
	})

	out, err := provider.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You write posts."},
		{Role: RoleUser, Content: "write one"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	select {
	case err := <-errCh:
		t.Fatalf("handler error: %v", err)
	default:
	}
	if out != "drafted post" {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{APIURL: server.URL, Model: "gpt-test"})
	if _, err := provider.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
