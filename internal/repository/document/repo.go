// Package document implements document persistence over Redis hashes
// with an FT index for listing and vector search.
package document

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

const (
	defaultHNSWM           = 16
	defaultHNSWEFConstruct = 200
)

// HNSWConfig tunes the vector index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements usecase document storage over a single documents index.
type Repo struct {
	store     store
	keyPrefix string
	hnsw      HNSWConfig
}

// New creates a document repository. keyPrefix is the storage namespace
// (e.g. "ragdex:").
func New(s store, keyPrefix string) *Repo {
	return &Repo{
		store:     s,
		keyPrefix: keyPrefix,
		hnsw:      HNSWConfig{M: defaultHNSWM, EFConstruct: defaultHNSWEFConstruct},
	}
}

// WithHNSW overrides the HNSW build parameters. Zero fields keep defaults.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// IndexName returns the FT index name used for documents.
func (r *Repo) IndexName() string {
	return r.keyPrefix + "doc_idx"
}

// EnsureIndex creates the documents index if it does not exist yet.
// dimensions is the embedding vector size, fixed per deployment.
func (r *Repo) EnsureIndex(ctx context.Context, dimensions int) error {
	def := db.NewIndex(r.IndexName()).
		Prefix(r.docKeyPrefix()).
		Text(fieldTitle).
		Text(fieldContent).
		VectorHNSW(fieldVector, dimensions, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct).
		MustBuild()

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create documents index: %w", err)
	}
	return nil
}

// Upsert creates or updates a document. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, doc *domain.Document) (bool, error) {
	key := r.docKey(doc.ID)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(doc)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Document, error) {
	key := r.docKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	// HGETALL returns an empty map for missing keys
	if len(fields) == 0 {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return parseHashFields(id, fields), nil
}

// List returns documents with cursor-based pagination via FT.SEARCH.
func (r *Repo) List(ctx context.Context, cursor string, limit int) ([]domain.Document, string, error) {
	if limit <= 0 {
		limit = 20
	}

	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor %q", cursor)
		}
		offset = parsed
	}

	fetchCount := limit + 1

	result, err := r.store.SearchList(ctx, r.IndexName(), "*", offset, fetchCount, nil)
	if err != nil {
		return nil, "", fmt.Errorf("search list: %w", err)
	}

	if result == nil || result.Total == 0 {
		return nil, "", nil
	}

	docs := make([]domain.Document, 0, limit)
	for i, entry := range result.Entries {
		if i >= limit {
			break
		}
		docs = append(docs, parseHashFields(r.extractDocID(entry.Key), entry.Fields))
	}

	var nextCursor string
	if len(result.Entries) > limit {
		nextCursor = strconv.Itoa(offset + limit)
	}

	return docs, nextCursor, nil
}

// Count returns the number of stored documents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.IndexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

// Delete removes a document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.docKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (r *Repo) docKeyPrefix() string {
	return r.keyPrefix + "doc:"
}

func (r *Repo) docKey(id string) string {
	return r.docKeyPrefix() + id
}

func (r *Repo) extractDocID(key string) string {
	return strings.TrimPrefix(key, r.docKeyPrefix())
}
