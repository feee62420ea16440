// Package search implements the similarity search use case: embed the
// question, run a KNN lookup and keep only hits above the similarity
// threshold.
package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Service handles similarity search over the document store.
type Service struct {
	repo     Repository
	embed    Embedder
	defaults domain.Defaults
}

// New creates a search service.
func New(repo Repository, embed Embedder, defaults domain.Defaults) *Service {
	return &Service{repo: repo, embed: embed, defaults: defaults}
}

// Search embeds the question and returns threshold-filtered hits ordered by
// similarity, best first. An empty index yields an empty slice, not an error.
func (s *Service) Search(ctx context.Context, q domain.Query) ([]domain.SearchResult, error) {
	if strings.TrimSpace(q.Question) == "" {
		return nil, domain.ErrEmptyQuery
	}

	q = q.Resolve(s.defaults)

	embResult, err := s.embed.Embed(ctx, q.Question)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := s.repo.SearchKNN(ctx, embResult.Embedding, q.TopK)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	// Filter on the raw similarity; rounding is presentation only, so a
	// hit just under the threshold never rounds its way in.
	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity < q.Threshold {
			continue
		}
		hit.Similarity = roundSimilarity(hit.Similarity)
		results = append(results, hit)
	}

	return results, nil
}

// roundSimilarity rounds to 4 decimal places.
func roundSimilarity(s float64) float64 {
	return math.Round(s*10000) / 10000
}
