package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank question that must never reach the pipeline.
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrEmptyContent signals a document with no content to embed.
	ErrEmptyContent = errors.New("document content cannot be empty")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidMetadata signals document metadata that cannot be stored.
	ErrInvalidMetadata = errors.New("invalid document metadata")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexUnavailable signals that the vector index cannot be reached.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrModelNotFound signals that the LLM runtime does not have the requested model.
	ErrModelNotFound = errors.New("model not found")
)
