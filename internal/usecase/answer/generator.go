// Package answer implements answer generation over an external LLM runtime:
// bounded retry on short answers, extractive fallback on failure, ending
// normalization and natural-boundary streaming.
package answer

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// maxAttempts bounds the generate-retry loop. Short or failed answers get
// exactly one more try before falling back.
const maxAttempts = 2

// Config holds generation policy settings.
type Config struct {
	Model               string
	Temperature         float64
	MaxResponseTokens   int
	MinResponseWords    int
	AvailabilityTimeout time.Duration
	PullTimeout         time.Duration
	EndingPhrases       []string
	Recorder            *metrics.Recorder
	Logger              *zap.Logger
}

// Generator produces answers from a query and ranked context documents.
type Generator struct {
	llm         LLM
	model       string
	temperature float64
	maxTokens   int
	minWords    int

	availTimeout time.Duration
	pullTimeout  time.Duration

	detector *EndingDetector
	recorder *metrics.Recorder
	logger   *zap.Logger

	// sleep is swapped out in tests to skip pacing delays.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates an answer generator.
func New(llm LLM, cfg *Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		llm:          llm,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxResponseTokens,
		minWords:     cfg.MinResponseWords,
		availTimeout: cfg.AvailabilityTimeout,
		pullTimeout:  cfg.PullTimeout,
		detector:     NewEndingDetector(cfg.EndingPhrases),
		recorder:     cfg.Recorder,
		logger:       logger,
		sleep:        sleepCtx,
	}
}

// Provenance tags answers produced by the configured model.
func (g *Generator) Provenance() string {
	return "ollama-" + g.model
}

// Generate produces an answer for the query from the given context documents.
// Runs a bounded retry loop: a short answer or a runtime error gets one more
// attempt; on exhaustion the extractive fallback answers instead. Never
// returns an error to the caller short of context cancellation.
func (g *Generator) Generate(ctx context.Context, query string, contextDocs []string) (domain.Answer, error) {
	start := time.Now()

	g.ensureModel(ctx)

	req := domain.GenerateRequest{
		Model:       g.model,
		Prompt:      buildPrompt(query, contextDocs),
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Stop:        stopTokens,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := g.llm.Generate(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Answer{}, ctx.Err()
			}
			if attempt < maxAttempts {
				g.logger.Warn("Generation failed, retrying",
					zap.Int("attempt", attempt), zap.Error(err))
				continue
			}
			g.logger.Error("Generation failed after all attempts",
				zap.Int("attempts", maxAttempts), zap.Error(err))
			g.recorder.RecordGeneration(g.model, time.Since(start), false)
			return Extractive(query, contextDocs), nil
		}

		text = strings.TrimSpace(text)

		if wc := wordCount(text); wc < g.minWords && attempt < maxAttempts {
			g.logger.Info("Response too short, retrying",
				zap.Int("words", wc), zap.Int("attempt", attempt))
			continue
		}

		g.recorder.RecordGeneration(g.model, time.Since(start), true)
		return domain.Answer{
			Text:       EnsureProperEnding(text),
			Provenance: g.Provenance(),
		}, nil
	}

	// Unreachable: the last loop iteration always returns.
	g.recorder.RecordGeneration(g.model, time.Since(start), false)
	return Extractive(query, contextDocs), nil
}

// ensureModel checks model availability with a short deadline and pulls it
// with a long one when missing. Best effort: generation proceeds either way
// and reports its own errors.
func (g *Generator) ensureModel(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, g.availTimeout)
	defer cancel()

	ok, err := g.llm.IsModelAvailable(checkCtx, g.model)
	if err == nil && ok {
		return
	}
	if err != nil {
		g.logger.Debug("Model availability check failed", zap.Error(err))
	}

	g.logger.Warn("Model not available, pulling", zap.String("model", g.model))

	pullCtx, cancelPull := context.WithTimeout(ctx, g.pullTimeout)
	defer cancelPull()

	if err := g.llm.Pull(pullCtx, g.model); err != nil {
		g.logger.Error("Model pull failed", zap.String("model", g.model), zap.Error(err))
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// pace sleeps a random duration in [min, max) unless the context ends first.
func (g *Generator) pace(ctx context.Context, min, max time.Duration) {
	g.sleep(ctx, min+time.Duration(rand.Int63n(int64(max-min))))
}
