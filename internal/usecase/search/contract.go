package search

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	SearchKNN(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
