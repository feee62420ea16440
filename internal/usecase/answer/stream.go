package answer

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

const (
	// breakChars are the natural boundaries a chunk may end on.
	breakChars = " .,!?:;\n"
	// flushThreshold bounds chunk latency when no break char arrives.
	flushThreshold = 10
	// tokensPerChunk derives the chunk budget from the max response length.
	tokensPerChunk = 10

	flushDelayMin  = 20 * time.Millisecond
	flushDelayMax  = 50 * time.Millisecond
	endingPauseMin = 200 * time.Millisecond
	endingPauseMax = 400 * time.Millisecond
	wordDelayMin   = 50 * time.Millisecond
	wordDelayMax   = 150 * time.Millisecond
)

// errChunkBudget stops the underlying stream once enough output arrived.
var errChunkBudget = errors.New("chunk budget exhausted")

// GenerateStream produces the answer as an ordered sequence of chunks cut at
// natural language boundaries. The channel is closed after the final chunk
// (Final=true) or as soon as ctx is cancelled. Concatenating all chunk
// contents yields the full answer text, ending adjustment included.
//
// A failed runtime stream degrades to a blocking Generate call replayed
// word by word, so consumers always see a stream.
func (g *Generator) GenerateStream(ctx context.Context, query string, contextDocs []string) <-chan domain.StreamChunk {
	out := make(chan domain.StreamChunk)
	go func() {
		defer close(out)
		g.streamAnswer(ctx, out, query, contextDocs)
	}()
	return out
}

func (g *Generator) streamAnswer(ctx context.Context, out chan<- domain.StreamChunk, query string, contextDocs []string) {
	start := time.Now()

	g.ensureModel(ctx)

	req := domain.GenerateRequest{
		Model:       g.model,
		Prompt:      buildPrompt(query, contextDocs),
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Stop:        stopTokens,
	}

	c := &chunker{
		gen:       g,
		out:       out,
		maxChunks: g.maxTokens / tokensPerChunk,
	}

	err := g.llm.GenerateStream(ctx, req, func(fragment string) error {
		return c.feed(ctx, fragment)
	})

	switch {
	case err == nil || errors.Is(err, errChunkBudget):
		if c.finish(ctx) != nil {
			return
		}
		g.recorder.RecordStream(g.model, time.Since(start), true)

	case ctx.Err() != nil:
		return

	default:
		g.recorder.RecordStream(g.model, time.Since(start), false)
		g.logger.Warn("Streaming generation failed, simulating stream", zap.Error(err))
		g.simulateStream(ctx, out, query, contextDocs)
	}
}

// simulateStream replays a blocking answer word by word with pacing delays.
func (g *Generator) simulateStream(ctx context.Context, out chan<- domain.StreamChunk, query string, contextDocs []string) {
	ans, err := g.Generate(ctx, query, contextDocs)
	if err != nil {
		return
	}

	words := strings.Fields(ans.Text)
	for i, word := range words {
		content := word
		if i < len(words)-1 {
			content += " "
		}
		if !send(ctx, out, domain.StreamChunk{Content: content}) {
			return
		}
		g.pace(ctx, wordDelayMin, wordDelayMax)
	}

	send(ctx, out, domain.StreamChunk{Final: true})
}

func send(ctx context.Context, out chan<- domain.StreamChunk, chunk domain.StreamChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// chunker buffers raw stream fragments and re-emits them as chunks cut at
// natural break characters.
type chunker struct {
	gen         *Generator
	out         chan<- domain.StreamChunk
	buffer      string
	accumulated strings.Builder
	count       int
	maxChunks   int
}

// feed consumes one raw fragment from the runtime stream. Returns
// errChunkBudget when the chunk budget is spent, or ctx.Err() when the
// consumer is gone.
func (c *chunker) feed(ctx context.Context, fragment string) error {
	c.buffer += fragment
	c.count++

	if c.count >= c.maxChunks {
		if err := c.drain(ctx); err != nil {
			return err
		}
		return errChunkBudget
	}

	for len(c.buffer) > 0 {
		if i := strings.IndexAny(c.buffer, breakChars); i >= 0 {
			chunk := c.buffer[:i+1]
			c.buffer = c.buffer[i+1:]
			if err := c.emit(ctx, chunk); err != nil {
				return err
			}
			// Conversational pause when the text sounds finished.
			if c.gen.detector.Detect(c.accumulated.String()) {
				c.gen.pace(ctx, endingPauseMin, endingPauseMax)
			}
			continue
		}

		// No break in sight: flush a long buffer to bound latency,
		// keep a short one until more text arrives.
		if len(c.buffer) > flushThreshold {
			c.gen.pace(ctx, flushDelayMin, flushDelayMax)
			if err := c.emit(ctx, c.buffer); err != nil {
				return err
			}
			c.buffer = ""
		}
		break
	}

	return ctx.Err()
}

// finish drains the buffer, emits the ending-adjustment delta if the
// normalized answer extends the accumulated text, and sends the final marker.
func (c *chunker) finish(ctx context.Context) error {
	if err := c.drain(ctx); err != nil {
		return err
	}

	full := c.accumulated.String()
	final := EnsureProperEnding(full)
	if len(final) > len(full) {
		if err := c.emit(ctx, final[len(full):]); err != nil {
			return err
		}
	}

	if !send(ctx, c.out, domain.StreamChunk{Final: true}) {
		return ctx.Err()
	}
	return nil
}

func (c *chunker) drain(ctx context.Context) error {
	if c.buffer == "" {
		return nil
	}
	err := c.emit(ctx, c.buffer)
	c.buffer = ""
	return err
}

func (c *chunker) emit(ctx context.Context, chunk string) error {
	c.accumulated.WriteString(chunk)
	if !send(ctx, c.out, domain.StreamChunk{Content: chunk}) {
		return ctx.Err()
	}
	return nil
}
