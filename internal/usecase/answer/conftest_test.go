package answer

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// mockLLM implements the LLM consumer interface for tests.
type mockLLM struct {
	generateFn  func(ctx context.Context, req domain.GenerateRequest) (string, error)
	streamFn    func(ctx context.Context, req domain.GenerateRequest, fn func(string) error) error
	availableFn func(ctx context.Context, model string) (bool, error)
	pullFn      func(ctx context.Context, model string) error

	generateCalls int
	pullCalls     int
}

func (m *mockLLM) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	m.generateCalls++
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return "", nil
}

func (m *mockLLM) GenerateStream(ctx context.Context, req domain.GenerateRequest, fn func(string) error) error {
	if m.streamFn != nil {
		return m.streamFn(ctx, req, fn)
	}
	return nil
}

func (m *mockLLM) IsModelAvailable(ctx context.Context, model string) (bool, error) {
	if m.availableFn != nil {
		return m.availableFn(ctx, model)
	}
	return true, nil
}

func (m *mockLLM) Pull(ctx context.Context, model string) error {
	m.pullCalls++
	if m.pullFn != nil {
		return m.pullFn(ctx, model)
	}
	return nil
}

func newTestGenerator(t *testing.T, llm *mockLLM) *Generator {
	t.Helper()
	g := New(llm, &Config{
		Model:               "gemma3:1b",
		Temperature:         0.7,
		MaxResponseTokens:   1500,
		MinResponseWords:    50,
		AvailabilityTimeout: 5 * time.Second,
		PullTimeout:         300 * time.Second,
		Logger:              zap.NewNop(),
	})
	// Skip pacing delays in tests.
	g.sleep = func(context.Context, time.Duration) {}
	return g
}

// longAnswer clears the minimum word count gate.
func longAnswer() string {
	s := ""
	for i := 0; i < 60; i++ {
		s += "word "
	}
	return s + "done."
}

// collect reads every chunk until the channel closes.
func collect(t *testing.T, ch <-chan domain.StreamChunk) []domain.StreamChunk {
	t.Helper()
	var chunks []domain.StreamChunk
	for c := range ch {
		chunks = append(chunks, c)
	}
	return chunks
}

// joinContent concatenates the content of all non-final chunks.
func joinContent(chunks []domain.StreamChunk) string {
	s := ""
	for _, c := range chunks {
		s += c.Content
	}
	return s
}
