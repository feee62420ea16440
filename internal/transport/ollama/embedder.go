package ollama

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

const providerName = "ollama"

// Embedder is an embedding provider backed by a local Ollama runtime.
type Embedder struct {
	client *Client
	model  string
	logger *zap.Logger
}

// NewEmbedder creates an Ollama embedding provider for the given model.
func NewEmbedder(client *Client, model string, logger *zap.Logger) *Embedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Embed implements domain.Embedder. Ollama does not report token usage,
// so the usage fields of the result are always zero.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()

	vec, err := e.client.Embeddings(ctx, e.model, text)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, "api_error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("%s: %w", err.Error(), domain.ErrEmbeddingProviderError)
	}

	if len(vec) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, e.model).Observe(duration.Seconds())

	return domain.EmbeddingResult{Embedding: vec}, nil
}

// HealthCheck verifies the runtime is reachable.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	return e.client.HealthCheck(ctx)
}
