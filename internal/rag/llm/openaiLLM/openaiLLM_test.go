package openaiLLM

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/GoDocQA/internal/rag/llm"
)

func TestGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"blue"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIClient("key", srv.URL, llm.Settings{Model: "m", Temperature: 0.3, MaxNewTokens: 512})
	answer, err := p.Generate(context.Background(), "What color is the sky?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "blue" {
		t.Errorf("got %q, want blue", answer)
	}
	if got["model"] != "m" || got["temperature"] != 0.3 {
		t.Errorf("unexpected request %v", got)
	}
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenAIClient("key", srv.URL, llm.Settings{Model: "m"})
	if _, err := p.Generate(context.Background(), "q"); err == nil {
		t.Error("expected an error")
	}
}
