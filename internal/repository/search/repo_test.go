package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func TestSearchKNN(t *testing.T) {
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
			if q.IndexName != "ragdex:doc_idx" {
				t.Errorf("unexpected index: %s", q.IndexName)
			}
			if q.K != 5 {
				t.Errorf("K = %d, want 5", q.K)
			}
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					{
						Key:   "ragdex:doc:a",
						Score: 0.91,
						Fields: map[string]string{
							"__title":   "Doc A",
							"__content": "alpha content",
							"source":    "manual",
						},
					},
					{
						Key:   "ragdex:doc:b",
						Score: 0.42,
						Fields: map[string]string{
							"__title":   "Doc B",
							"__content": "beta content",
						},
					},
				},
			}, nil
		},
	}
	repo := New(ms, "ragdex:")

	results, err := repo.SearchKNN(context.Background(), []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("SearchKNN: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	first := results[0]
	if first.ID != "a" || first.Title != "Doc A" || first.Content != "alpha content" {
		t.Errorf("unexpected first result: %+v", first)
	}
	if first.Similarity != 0.91 {
		t.Errorf("similarity = %v, want 0.91", first.Similarity)
	}
	if first.Metadata["source"] != "manual" {
		t.Errorf("metadata lost: %v", first.Metadata)
	}
	if results[1].Metadata != nil {
		t.Errorf("expected nil metadata, got %v", results[1].Metadata)
	}
}

func TestSearchKNN_Empty(t *testing.T) {
	repo := New(&mockStore{}, "ragdex:")

	results, err := repo.SearchKNN(context.Background(), []float32{0.1}, 5)
	if err != nil {
		t.Fatalf("SearchKNN: %v", err)
	}
	if results == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestSearchKNN_StoreError(t *testing.T) {
	wantErr := errors.New("index gone")
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
			return nil, wantErr
		},
	}
	repo := New(ms, "ragdex:")

	_, err := repo.SearchKNN(context.Background(), []float32{0.1}, 5)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
