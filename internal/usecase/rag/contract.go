package rag

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Searcher retrieves threshold-filtered context documents for a query.
type Searcher interface {
	Search(ctx context.Context, q domain.Query) ([]domain.SearchResult, error)
}

// Generator produces answers from a query and context documents.
type Generator interface {
	Generate(ctx context.Context, query string, contextDocs []string) (domain.Answer, error)
	GenerateStream(ctx context.Context, query string, contextDocs []string) <-chan domain.StreamChunk
}
