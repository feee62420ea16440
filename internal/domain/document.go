package domain

import "time"

// Document is an ingested document with its embedding. Immutable once stored.
type Document struct {
	ID        string
	Title     string
	Content   string
	Metadata  map[string]string
	Vector    []float32 // not exposed to clients
	CreatedAt time.Time
}

// SearchResult is a single retrieval hit. Derived per query, never persisted.
type SearchResult struct {
	ID         string
	Title      string
	Content    string
	Similarity float64 // max(0, 1 - cosine distance), rounded to 4 decimals
	Metadata   map[string]string
}
