package answer

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// LLM is the consumer contract for the model runtime.
type LLM interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (string, error)
	GenerateStream(ctx context.Context, req domain.GenerateRequest, fn func(fragment string) error) error
	IsModelAvailable(ctx context.Context, model string) (bool, error)
	Pull(ctx context.Context, model string) error
}
