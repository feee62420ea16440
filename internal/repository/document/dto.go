package document

import (
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Reserved hash field names. Metadata keys are stored flat alongside them,
// so user keys must not start with "__".
const (
	fieldTitle     = "__title"
	fieldContent   = "__content"
	fieldCreatedAt = "__created_at"
	fieldVector    = "__vector"
)

// buildHashFields converts a domain Document into a flat map[string]string for HSET.
func buildHashFields(doc *domain.Document) map[string]string {
	m := make(map[string]string, 4+len(doc.Metadata))
	m[fieldTitle] = doc.Title
	m[fieldContent] = doc.Content
	m[fieldCreatedAt] = doc.CreatedAt.UTC().Format(time.RFC3339Nano)
	m[fieldVector] = vectorToBytes(doc.Vector)
	for k, v := range doc.Metadata {
		m[k] = v
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Document.
func parseHashFields(id string, m map[string]string) domain.Document {
	doc := domain.Document{ID: id}
	metadata := make(map[string]string)

	for k, v := range m {
		switch k {
		case fieldTitle:
			doc.Title = v
		case fieldContent:
			doc.Content = v
		case fieldCreatedAt:
			if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
				doc.CreatedAt = t
			}
		case fieldVector:
			doc.Vector = bytesToVector(v)
		default:
			if !strings.HasPrefix(k, "__") {
				metadata[k] = v
			}
		}
	}

	if len(metadata) > 0 {
		doc.Metadata = metadata
	}
	return doc
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
