// Package search implements vector similarity lookups over the documents index.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Hash fields fetched for every hit. Vectors are never returned to callers.
var returnFields = []string{"__title", "__content"}

// Repo implements usecase/search.Repository.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a search repository. keyPrefix is the storage namespace
// (e.g. "ragdex:").
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// SearchKNN performs a KNN (vector similarity) search over the documents
// index. Results come back ordered by similarity, best first; each entry's
// Similarity is the raw converted score, not yet threshold-filtered.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	q := &db.KNNQuery{
		IndexName:    r.keyPrefix + "doc_idx",
		Vector:       vector,
		K:            topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return r.parseKNNResults(sr), nil
}

func (r *Repo) parseKNNResults(sr *db.SearchResult) []domain.SearchResult {
	if sr == nil || len(sr.Entries) == 0 {
		return []domain.SearchResult{}
	}

	docPrefix := r.keyPrefix + "doc:"
	results := make([]domain.SearchResult, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		res := domain.SearchResult{
			ID:         strings.TrimPrefix(entry.Key, docPrefix),
			Title:      entry.Fields["__title"],
			Content:    entry.Fields["__content"],
			Similarity: entry.Score,
		}

		metadata := make(map[string]string)
		for k, v := range entry.Fields {
			if !strings.HasPrefix(k, "__") {
				metadata[k] = v
			}
		}
		if len(metadata) > 0 {
			res.Metadata = metadata
		}

		results = append(results, res)
	}
	return results
}
