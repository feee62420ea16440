package domain

// ProvenanceExtractive tags answers assembled by the extractive fallback.
const ProvenanceExtractive = "extractive"

// Answer is a generated answer with a tag identifying the producing method.
type Answer struct {
	Text       string
	Provenance string // "ollama-<model>" or ProvenanceExtractive
}

// StreamChunk is one fragment of a streamed answer. Concatenating every
// chunk's Content in order yields the full answer text.
type StreamChunk struct {
	Content string
	Final   bool
}
