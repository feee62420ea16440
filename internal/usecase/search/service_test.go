package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	results  []domain.SearchResult
	err      error
	lastTopK int
}

func (m *mockRepo) SearchKNN(_ context.Context, _ []float32, topK int) ([]domain.SearchResult, error) {
	m.lastTopK = topK
	return m.results, m.err
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func testDefaults() domain.Defaults {
	return domain.Defaults{TopK: 20, MaxTopK: 20, Threshold: 0.55}
}

func newTestService(repo *mockRepo, emb *mockEmbedder) *Service {
	if emb == nil {
		emb = &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}}
	}
	return New(repo, emb, testDefaults())
}

// --- Tests ---

func TestSearch_ThresholdFiltering(t *testing.T) {
	repo := &mockRepo{results: []domain.SearchResult{
		{ID: "a", Similarity: 0.93},
		{ID: "b", Similarity: 0.55},
		{ID: "c", Similarity: 0.5499},
	}}
	svc := newTestService(repo, nil)

	results, err := svc.Search(context.Background(), domain.Query{Question: "what is x?"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Errorf("order not preserved: %s, %s", results[0].ID, results[1].ID)
	}
}

func TestSearch_SimilarityRounding(t *testing.T) {
	repo := &mockRepo{results: []domain.SearchResult{
		{ID: "a", Similarity: 0.93456789},
		{ID: "b", Similarity: 0.55002},
	}}
	svc := newTestService(repo, nil)

	results, err := svc.Search(context.Background(), domain.Query{Question: "q"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Similarity != 0.9346 {
		t.Errorf("similarity = %v, want 0.9346", results[0].Similarity)
	}
	if results[1].Similarity != 0.55 {
		t.Errorf("similarity = %v, want 0.55", results[1].Similarity)
	}
}

func TestSearch_RawThresholdBoundary(t *testing.T) {
	// Just under the threshold: rounds to 0.55 for display, but the raw
	// similarity decides, so the hit is dropped.
	repo := &mockRepo{results: []domain.SearchResult{
		{ID: "under", Similarity: 0.54996},
		{ID: "exact", Similarity: 0.55},
	}}
	svc := newTestService(repo, nil)

	results, err := svc.Search(context.Background(), domain.Query{Question: "q"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "exact" {
		t.Fatalf("expected only the exact-threshold hit, got %v", results)
	}
}

func TestSearch_EmptyQuestion(t *testing.T) {
	svc := newTestService(&mockRepo{}, nil)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Search(context.Background(), domain.Query{Question: q})
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("question %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	repo := &mockRepo{results: []domain.SearchResult{}}
	svc := newTestService(repo, nil)

	results, err := svc.Search(context.Background(), domain.Query{Question: "anything"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty slice, got %v", results)
	}
}

func TestSearch_TopKClamping(t *testing.T) {
	tests := []struct {
		name     string
		topK     int
		wantTopK int
	}{
		{"zero uses default", 0, 20},
		{"negative uses default", -3, 20},
		{"above max clamps", 100, 20},
		{"in range passes through", 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := newTestService(repo, nil)

			_, err := svc.Search(context.Background(), domain.Query{Question: "q", TopK: tt.topK})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if repo.lastTopK != tt.wantTopK {
				t.Errorf("repo got topK=%d, want %d", repo.lastTopK, tt.wantTopK)
			}
		})
	}
}

func TestSearch_EmbedderError(t *testing.T) {
	emb := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc := newTestService(&mockRepo{}, emb)

	_, err := svc.Search(context.Background(), domain.Query{Question: "q"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestSearch_RepoError(t *testing.T) {
	wantErr := errors.New("store down")
	svc := newTestService(&mockRepo{err: wantErr}, nil)

	_, err := svc.Search(context.Background(), domain.Query{Question: "q"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
