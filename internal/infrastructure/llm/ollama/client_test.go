package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raglab/docchat/internal/core/domain"
)

func TestGenerateAnswerBuildsSingleTurnPrompt(t *testing.T) {
	var capturedPrompt string
	var capturedModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		capturedModel, _ = payload["model"].(string)
		_, _ = w.Write([]byte(`{"response":" the answer "}`))
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "mistral:instruct", "embed", nil))
	answer, err := gen.GenerateAnswer(context.Background(), "what is this?", "[doc1]=chunk text")
	if err != nil {
		t.Fatalf("GenerateAnswer() error = %v", err)
	}
	if answer != "the answer" {
		t.Fatalf("expected trimmed response, got %q", answer)
	}
	if capturedModel != "mistral:instruct" {
		t.Fatalf("unexpected model: %q", capturedModel)
	}
	if !strings.Contains(capturedPrompt, "what is this?") || !strings.Contains(capturedPrompt, "[doc1]=chunk text") {
		t.Fatalf("unexpected prompt: %s", capturedPrompt)
	}
	if !strings.Contains(capturedPrompt, "[doc<doc_number>]") {
		t.Fatalf("single-turn prompt must describe [docN] tags: %s", capturedPrompt)
	}
}

func TestGenerateChatAnswerIncludesTranscriptAndResetRule(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "llama3", "embed", nil))
	history := []domain.ConversationTurn{
		{Question: "first question", Answer: "first answer"},
	}
	if _, err := gen.GenerateChatAnswer(context.Background(), "second question", "[source1]=ctx", history); err != nil {
		t.Fatalf("GenerateChatAnswer() error = %v", err)
	}
	if !strings.Contains(capturedPrompt, "User: first question") || !strings.Contains(capturedPrompt, "Assistant: first answer") {
		t.Fatalf("transcript missing from prompt: %s", capturedPrompt)
	}
	if !strings.Contains(capturedPrompt, "restart from [source1]") {
		t.Fatalf("chat prompt must mandate per-question renumbering: %s", capturedPrompt)
	}
}

func TestEmbedReturnsVectorPerText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2],[0.3,0.4]]}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "gen", "nomic-embed-text", nil))
	vectors, err := embedder.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if embedder.ModelID() != "nomic-embed-text" {
		t.Fatalf("unexpected model id %q", embedder.ModelID())
	}
}

func TestEmbedRejectsCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.1]]}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "gen", "embed", nil))
	if _, err := embedder.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestGenerateIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "gen", "embed", nil))
	_, err := gen.GenerateAnswer(context.Background(), "q", "ctx")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}
