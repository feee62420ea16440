package chi

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	"github.com/kailas-cloud/ragdex/internal/usecase/rag"
)

type mockSearch struct {
	searchFn func(ctx context.Context, q domain.Query) ([]domain.SearchResult, error)
}

func (m *mockSearch) Search(ctx context.Context, q domain.Query) ([]domain.SearchResult, error) {
	return m.searchFn(ctx, q)
}

type mockRAG struct {
	queryFn  func(ctx context.Context, q domain.Query) (rag.Response, error)
	streamFn func(ctx context.Context, q domain.Query) <-chan rag.Event
}

func (m *mockRAG) Query(ctx context.Context, q domain.Query) (rag.Response, error) {
	return m.queryFn(ctx, q)
}

func (m *mockRAG) QueryStream(ctx context.Context, q domain.Query) <-chan rag.Event {
	return m.streamFn(ctx, q)
}

type mockDocuments struct {
	createFn func(ctx context.Context, title, content string, metadata map[string]string) (domain.Document, error)
	getFn    func(ctx context.Context, id string) (domain.Document, error)
	listFn   func(ctx context.Context, cursor string, limit int) ([]domain.Document, string, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockDocuments) Create(
	ctx context.Context, title, content string, metadata map[string]string,
) (domain.Document, error) {
	return m.createFn(ctx, title, content, metadata)
}

func (m *mockDocuments) Get(ctx context.Context, id string) (domain.Document, error) {
	return m.getFn(ctx, id)
}

func (m *mockDocuments) List(ctx context.Context, cursor string, limit int) ([]domain.Document, string, error) {
	return m.listFn(ctx, cursor, limit)
}

func (m *mockDocuments) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockHealth struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealth) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

func newTestServer(search searchService, ragSvc ragService, docs documentService, health healthService) *Server {
	return NewServer(search, ragSvc, docs, health, zap.NewNop())
}

func eventChan(events ...rag.Event) <-chan rag.Event {
	ch := make(chan rag.Event, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return ch
}
