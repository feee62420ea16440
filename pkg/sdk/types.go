package sdk

import "time"

// Query is a retrieval request. Zero TopK and Threshold use the server
// defaults.
type Query struct {
	Question  string  `json:"question"`
	TopK      int     `json:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// SearchResult is one retrieval hit.
type SearchResult struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Similarity float64           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SearchResponse is the result of a search call.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// RAGResponse is the result of a blocking RAG call.
type RAGResponse struct {
	Query           string    `json:"query"`
	GeneratedAnswer string    `json:"generated_answer"`
	ModelUsed       string    `json:"model_used"`
	Timestamp       time.Time `json:"timestamp"`
}

// CreateDocumentRequest is the payload for document ingestion.
type CreateDocumentRequest struct {
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Document is a stored document. The embedding vector is server-internal
// and never returned.
type Document struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// DocumentList is one page of stored documents.
type DocumentList struct {
	Items      []Document `json:"items"`
	HasMore    bool       `json:"has_more"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// HealthReport is the service health summary.
type HealthReport struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	DocumentCount int               `json:"document_count"`
}

// EventType discriminates streamed RAG events.
type EventType string

// Stream event types, in protocol order.
const (
	EventSearchResults EventType = "search_results"
	EventContextFound  EventType = "context_found"
	EventChunk         EventType = "chunk"
	EventComplete      EventType = "complete"
	EventError         EventType = "error"
)

// StreamEvent is one element of a streaming RAG response. Only the fields
// matching Type are set.
type StreamEvent struct {
	Type      EventType `json:"type"`
	Count     int       `json:"count,omitempty"`
	Documents int       `json:"documents,omitempty"`
	Content   string    `json:"content,omitempty"`
	Message   string    `json:"message,omitempty"`
}
