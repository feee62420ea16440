package chi

import (
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/usecase/rag"
)

// ErrorCode identifies a class of API error.
type ErrorCode string

const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeDocumentNotFound       ErrorCode = "document_not_found"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeModelNotFound          ErrorCode = "model_not_found"
	ErrorCodeIndexUnavailable       ErrorCode = "index_unavailable"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// QueryRequest is the body of POST /search, POST /rag and POST /rag/stream.
// Zero top_k and threshold fall back to the configured defaults.
type QueryRequest struct {
	Question  string  `json:"question"`
	TopK      int     `json:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// SearchResult is one retrieval hit in a search response.
type SearchResult struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Similarity float64           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SearchResponse is the body of a successful POST /search.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// RAGResponse is the body of a successful POST /rag.
type RAGResponse struct {
	Query           string    `json:"query"`
	GeneratedAnswer string    `json:"generated_answer"`
	ModelUsed       string    `json:"model_used"`
	Timestamp       time.Time `json:"timestamp"`
}

// CreateDocumentRequest is the body of POST /documents.
type CreateDocumentRequest struct {
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DocumentResponse is a stored document as exposed to clients. Embeddings
// never leave the service.
type DocumentResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// DocumentListResponse is the body of GET /documents.
type DocumentListResponse struct {
	Items      []DocumentResponse `json:"items"`
	HasMore    bool               `json:"has_more"`
	NextCursor *string            `json:"next_cursor,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	DocumentCount int               `json:"document_count"`
}

func searchResultFromDomain(r domain.SearchResult) SearchResult {
	return SearchResult{
		ID:         r.ID,
		Title:      r.Title,
		Content:    r.Content,
		Similarity: r.Similarity,
		Metadata:   r.Metadata,
	}
}

func documentFromDomain(d domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
	}
}

// streamEventPayload shapes a RAG stream event for the wire. Each event type
// carries exactly the fields clients expect for it, nothing more.
func streamEventPayload(e rag.Event) any {
	switch e.Type {
	case rag.EventSearchResults:
		return struct {
			Type  string `json:"type"`
			Count int    `json:"count"`
		}{string(e.Type), e.Count}
	case rag.EventContextFound:
		return struct {
			Type      string `json:"type"`
			Documents int    `json:"documents"`
		}{string(e.Type), e.Documents}
	case rag.EventChunk:
		return struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}{string(e.Type), e.Content}
	case rag.EventError:
		return struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{string(e.Type), e.Message}
	default:
		return struct {
			Type string `json:"type"`
		}{string(e.Type)}
	}
}
