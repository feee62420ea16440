package document

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Upsert(ctx context.Context, doc *domain.Document) (bool, error)
	Get(ctx context.Context, id string) (domain.Document, error)
	List(ctx context.Context, cursor string, limit int) ([]domain.Document, string, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
