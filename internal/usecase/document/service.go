// Package document implements document CRUD with automatic vectorization.
package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Service handles document CRUD with automatic vectorization.
type Service struct {
	repo            Repository
	embed           Embedder
	defaultPageSize int
	maxPageSize     int
}

// New creates a document service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{
		repo:            repo,
		embed:           embed,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// Create stores a new document, vectorizing its content. Returns the stored
// document with its generated ID.
func (s *Service) Create(ctx context.Context, title, content string, metadata map[string]string) (domain.Document, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Document{}, domain.ErrEmptyContent
	}
	for k := range metadata {
		if strings.HasPrefix(k, "__") {
			return domain.Document{}, fmt.Errorf("metadata key %q uses a reserved prefix: %w", k, domain.ErrInvalidMetadata)
		}
	}

	result, err := s.embed.Embed(ctx, content)
	if err != nil {
		return domain.Document{}, fmt.Errorf("vectorize document: %w", err)
	}

	doc := domain.Document{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Metadata:  metadata,
		Vector:    result.Embedding,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.repo.Upsert(ctx, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("store document: %w", err)
	}

	// Vectors stay internal.
	doc.Vector = nil
	return doc, nil
}

// Get returns a document by ID, without its vector.
func (s *Service) Get(ctx context.Context, id string) (domain.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	doc.Vector = nil
	return doc, nil
}

// List returns a page of documents and the cursor for the next page.
func (s *Service) List(ctx context.Context, cursor string, limit int) ([]domain.Document, string, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	docs, next, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return nil, "", err
	}
	for i := range docs {
		docs[i].Vector = nil
	}
	return docs, next, nil
}

// Count returns the number of stored documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Delete removes a document by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
