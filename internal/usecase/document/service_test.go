package document

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	upsertFn func(ctx context.Context, doc *domain.Document) (bool, error)
	getFn    func(ctx context.Context, id string) (domain.Document, error)
	listFn   func(ctx context.Context, cursor string, limit int) ([]domain.Document, string, error)
	countFn  func(ctx context.Context) (int, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockRepo) Upsert(ctx context.Context, doc *domain.Document) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return true, nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Document{}, domain.ErrDocumentNotFound
}

func (m *mockRepo) List(ctx context.Context, cursor string, limit int) ([]domain.Document, string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, cursor, limit)
	}
	return nil, "", nil
}

func (m *mockRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

// --- Tests ---

func TestCreate(t *testing.T) {
	var stored *domain.Document
	repo := &mockRepo{
		upsertFn: func(_ context.Context, doc *domain.Document) (bool, error) {
			stored = doc
			return true, nil
		},
	}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}}
	svc := New(repo, emb)

	doc, err := svc.Create(context.Background(), "Title", "some content", map[string]string{"source": "test"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.ID == "" {
		t.Error("no ID generated")
	}
	if doc.Vector != nil {
		t.Error("vector leaked to caller")
	}
	if doc.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
	if emb.calls != 1 {
		t.Errorf("embed calls = %d", emb.calls)
	}
	if stored == nil || len(stored.Vector) != 2 {
		t.Errorf("stored vector = %+v", stored)
	}
}

func TestCreate_EmptyContent(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{})

	_, err := svc.Create(context.Background(), "t", "   ", nil)
	if !errors.Is(err, domain.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestCreate_ReservedMetadataKey(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{})

	_, err := svc.Create(context.Background(), "t", "content", map[string]string{"__vector": "x"})
	if err == nil {
		t.Fatal("expected error for reserved metadata key")
	}
}

func TestCreate_EmbedderError(t *testing.T) {
	emb := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc := New(&mockRepo{}, emb)

	_, err := svc.Create(context.Background(), "t", "content", nil)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestGet_StripsVector(t *testing.T) {
	repo := &mockRepo{
		getFn: func(_ context.Context, id string) (domain.Document, error) {
			return domain.Document{ID: id, Vector: []float32{0.1}}, nil
		},
	}
	svc := New(repo, &mockEmbedder{})

	doc, err := svc.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Vector != nil {
		t.Error("vector leaked to caller")
	}
}

func TestList_ClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockRepo{
		listFn: func(_ context.Context, _ string, limit int) ([]domain.Document, string, error) {
			gotLimit = limit
			return nil, "", nil
		},
	}
	svc := New(repo, &mockEmbedder{})

	if _, _, err := svc.List(context.Background(), "", 0); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotLimit != 20 {
		t.Errorf("default limit = %d, want 20", gotLimit)
	}

	if _, _, err := svc.List(context.Background(), "", 1000); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotLimit != 100 {
		t.Errorf("clamped limit = %d, want 100", gotLimit)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockRepo{
		deleteFn: func(_ context.Context, _ string) error { return domain.ErrDocumentNotFound },
	}
	svc := New(repo, &mockEmbedder{})

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
