// Package rag orchestrates the retrieval-and-generation pipeline: similarity
// search feeds context documents into answer generation, blocking or
// streamed as typed events.
package rag

import (
	"context"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// NoContextMessage is returned when no document clears the similarity
// threshold.
const NoContextMessage = "No relevant documents found."

// modelUsedNone marks responses produced without any model.
const modelUsedNone = "none"

// Response is the result of a blocking RAG query.
type Response struct {
	Query     string
	Answer    string
	ModelUsed string
	Timestamp time.Time
}

// EventType discriminates streamed RAG events.
type EventType string

const (
	// EventSearchResults reports how many documents matched.
	EventSearchResults EventType = "search_results"
	// EventContextFound reports how many documents feed the prompt.
	EventContextFound EventType = "context_found"
	// EventChunk carries one fragment of the streamed answer.
	EventChunk EventType = "chunk"
	// EventComplete terminates a successful stream.
	EventComplete EventType = "complete"
	// EventError terminates a failed stream.
	EventError EventType = "error"
)

// Event is one element of the ordered stream a streaming query produces.
// Exactly one payload field is meaningful per type.
type Event struct {
	Type      EventType
	Count     int    // search_results
	Documents int    // context_found
	Content   string // chunk
	Message   string // error
}

// Service runs RAG queries.
type Service struct {
	search Searcher
	gen    Generator
}

// New creates a RAG service.
func New(search Searcher, gen Generator) *Service {
	return &Service{search: search, gen: gen}
}

// Query answers a question from the document store. With no context above
// the threshold the response says so instead of failing.
func (s *Service) Query(ctx context.Context, q domain.Query) (Response, error) {
	results, err := s.search.Search(ctx, q)
	if err != nil {
		return Response{}, err
	}

	resp := Response{Query: q.Question, Timestamp: time.Now().UTC()}

	docs := contents(results)
	if len(docs) == 0 {
		resp.Answer = NoContextMessage
		resp.ModelUsed = modelUsedNone
		return resp, nil
	}

	ans, err := s.gen.Generate(ctx, q.Question, docs)
	if err != nil {
		return Response{}, err
	}

	resp.Answer = ans.Text
	resp.ModelUsed = ans.Provenance
	return resp, nil
}

// QueryStream answers a question as an ordered event sequence:
// search_results, then either context_found followed by chunk events and a
// terminal complete, or a terminal error. The channel closes after the
// terminal event or when ctx is cancelled.
func (s *Service) QueryStream(ctx context.Context, q domain.Query) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		s.streamEvents(ctx, out, q)
	}()
	return out
}

func (s *Service) streamEvents(ctx context.Context, out chan<- Event, q domain.Query) {
	results, err := s.search.Search(ctx, q)
	if err != nil {
		sendEvent(ctx, out, Event{Type: EventError, Message: err.Error()})
		return
	}

	if !sendEvent(ctx, out, Event{Type: EventSearchResults, Count: len(results)}) {
		return
	}

	docs := contents(results)
	if len(docs) == 0 {
		sendEvent(ctx, out, Event{Type: EventError, Message: NoContextMessage})
		return
	}

	if !sendEvent(ctx, out, Event{Type: EventContextFound, Documents: len(docs)}) {
		return
	}

	for chunk := range s.gen.GenerateStream(ctx, q.Question, docs) {
		if chunk.Final {
			sendEvent(ctx, out, Event{Type: EventComplete})
			return
		}
		if !sendEvent(ctx, out, Event{Type: EventChunk, Content: chunk.Content}) {
			return
		}
	}
	// Generator closed without a final marker: the context was cancelled.
}

func sendEvent(ctx context.Context, out chan<- Event, e Event) bool {
	select {
	case out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

func contents(results []domain.SearchResult) []string {
	docs := make([]string, 0, len(results))
	for _, r := range results {
		docs = append(docs, r.Content)
	}
	return docs
}
