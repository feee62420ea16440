package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func TestGenerate_Success(t *testing.T) {
	llm := &mockLLM{
		generateFn: func(_ context.Context, req domain.GenerateRequest) (string, error) {
			if req.Model != "gemma3:1b" {
				t.Errorf("model = %q", req.Model)
			}
			if req.Temperature != 0.7 || req.MaxTokens != 1500 {
				t.Errorf("options = %v/%d", req.Temperature, req.MaxTokens)
			}
			if len(req.Stop) != 4 || req.Stop[0] != "Question:" {
				t.Errorf("stop tokens = %v", req.Stop)
			}
			return longAnswer(), nil
		},
	}
	g := newTestGenerator(t, llm)

	ans, err := g.Generate(context.Background(), "what is Go?", []string{"Go is a language."})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if ans.Provenance != "ollama-gemma3:1b" {
		t.Errorf("provenance = %q", ans.Provenance)
	}
	if !strings.HasSuffix(ans.Text, ".") {
		t.Errorf("answer not properly ended: %q", ans.Text)
	}
	if llm.generateCalls != 1 {
		t.Errorf("generate calls = %d, want 1", llm.generateCalls)
	}
}

func TestGenerate_PromptContainsContext(t *testing.T) {
	var gotPrompt string
	llm := &mockLLM{
		generateFn: func(_ context.Context, req domain.GenerateRequest) (string, error) {
			gotPrompt = req.Prompt
			return longAnswer(), nil
		},
	}
	g := newTestGenerator(t, llm)

	docs := []string{"doc one", "doc two", "doc three", "doc four"}
	if _, err := g.Generate(context.Background(), "the question", docs); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(gotPrompt, "doc one\n\ndoc two\n\ndoc three") {
		t.Errorf("prompt missing joined context:\n%s", gotPrompt)
	}
	if strings.Contains(gotPrompt, "doc four") {
		t.Error("prompt should only use the first three documents")
	}
	if !strings.Contains(gotPrompt, "Question: the question") {
		t.Error("prompt missing question")
	}
}

func TestGenerate_RetryOnShortAnswer(t *testing.T) {
	llm := &mockLLM{}
	llm.generateFn = func(_ context.Context, _ domain.GenerateRequest) (string, error) {
		if llm.generateCalls == 1 {
			return "too short.", nil
		}
		return longAnswer(), nil
	}
	g := newTestGenerator(t, llm)

	ans, err := g.Generate(context.Background(), "q", []string{"ctx"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if llm.generateCalls != 2 {
		t.Errorf("generate calls = %d, want 2", llm.generateCalls)
	}
	if len(strings.Fields(ans.Text)) < 50 {
		t.Errorf("short answer accepted after retry: %q", ans.Text)
	}
}

func TestGenerate_ShortAnswerAcceptedOnLastAttempt(t *testing.T) {
	llm := &mockLLM{
		generateFn: func(_ context.Context, _ domain.GenerateRequest) (string, error) {
			return "still short.", nil
		},
	}
	g := newTestGenerator(t, llm)

	ans, err := g.Generate(context.Background(), "q", []string{"ctx"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if llm.generateCalls != 2 {
		t.Errorf("generate calls = %d, want exactly 2", llm.generateCalls)
	}
	if ans.Text != "Still short." {
		t.Errorf("text = %q", ans.Text)
	}
	if ans.Provenance != "ollama-gemma3:1b" {
		t.Errorf("provenance = %q", ans.Provenance)
	}
}

func TestGenerate_RetryOnError(t *testing.T) {
	llm := &mockLLM{}
	llm.generateFn = func(_ context.Context, _ domain.GenerateRequest) (string, error) {
		if llm.generateCalls == 1 {
			return "", errors.New("runtime hiccup")
		}
		return longAnswer(), nil
	}
	g := newTestGenerator(t, llm)

	ans, err := g.Generate(context.Background(), "q", []string{"ctx"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if ans.Provenance != "ollama-gemma3:1b" {
		t.Errorf("provenance = %q", ans.Provenance)
	}
	if llm.generateCalls != 2 {
		t.Errorf("generate calls = %d, want 2", llm.generateCalls)
	}
}

func TestGenerate_FallsBackToExtractive(t *testing.T) {
	llm := &mockLLM{
		generateFn: func(_ context.Context, _ domain.GenerateRequest) (string, error) {
			return "", errors.New("runtime down")
		},
	}
	g := newTestGenerator(t, llm)

	ans, err := g.Generate(context.Background(), "Go concurrency", []string{"Go concurrency uses goroutines. Irrelevant bit"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if llm.generateCalls != 2 {
		t.Errorf("generate calls = %d, want 2", llm.generateCalls)
	}
	if ans.Provenance != domain.ProvenanceExtractive {
		t.Errorf("provenance = %q, want extractive", ans.Provenance)
	}
	if !strings.Contains(ans.Text, "goroutines") {
		t.Errorf("extractive answer lost context: %q", ans.Text)
	}
}

func TestGenerate_PullsMissingModel(t *testing.T) {
	llm := &mockLLM{
		availableFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
		generateFn: func(_ context.Context, _ domain.GenerateRequest) (string, error) {
			return longAnswer(), nil
		},
	}
	g := newTestGenerator(t, llm)

	if _, err := g.Generate(context.Background(), "q", []string{"ctx"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if llm.pullCalls != 1 {
		t.Errorf("pull calls = %d, want 1", llm.pullCalls)
	}
}

func TestGenerate_AvailableModelNotPulled(t *testing.T) {
	llm := &mockLLM{
		generateFn: func(_ context.Context, _ domain.GenerateRequest) (string, error) {
			return longAnswer(), nil
		},
	}
	g := newTestGenerator(t, llm)

	if _, err := g.Generate(context.Background(), "q", []string{"ctx"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if llm.pullCalls != 0 {
		t.Errorf("pull calls = %d, want 0", llm.pullCalls)
	}
}

func TestGenerate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llm := &mockLLM{
		generateFn: func(_ context.Context, _ domain.GenerateRequest) (string, error) {
			cancel()
			return "", context.Canceled
		},
	}
	g := newTestGenerator(t, llm)

	_, err := g.Generate(ctx, "q", []string{"ctx"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
