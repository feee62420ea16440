package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func TestEmbedder_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"embedding":[0.1,0.2,0.3,0.4]}`)
	}))
	defer server.Close()

	emb := NewEmbedder(newTestClient(server.URL), "nomic-embed-text:v1.5", zap.NewNop())

	result, err := emb.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(result.Embedding) != 4 {
		t.Fatalf("expected 4 dims, got %d", len(result.Embedding))
	}
	if result.Embedding[0] != 0.1 {
		t.Errorf("unexpected first component: %v", result.Embedding[0])
	}
}

func TestEmbedder_Embed_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"embedding":[]}`)
	}))
	defer server.Close()

	emb := NewEmbedder(newTestClient(server.URL), "nomic-embed-text:v1.5", zap.NewNop())

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedder_Embed_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	emb := NewEmbedder(newTestClient(server.URL), "nomic-embed-text:v1.5", zap.NewNop())

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}
