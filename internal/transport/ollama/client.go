// Package ollama implements a thin HTTP client for the Ollama runtime API.
// It covers the endpoints the service needs: embeddings, text generation
// (blocking and streaming), model listing and model pulls.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Config holds the Ollama runtime connection settings.
type Config struct {
	Host   string // e.g. http://localhost:11434
	Logger *zap.Logger
}

// Client talks to a single Ollama instance.
type Client struct {
	host   string
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates an Ollama API client. Timeouts are per-call via context:
// generation streams can run for minutes, so the underlying http.Client has
// no global deadline.
func NewClient(cfg *Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		host:   strings.TrimRight(cfg.Host, "/"),
		http:   &http.Client{},
		logger: logger,
	}
}

// wire types for /api/generate
type generateOptions struct {
	Temperature float64  `json:"temperature"`
	NumPredict  int      `json:"num_predict,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate runs a blocking completion and returns the full response text.
func (c *Client) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	body := generateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
			Stop:        req.Stop,
		},
	}

	var resp generateResponse
	if err := c.postJSON(ctx, "/api/generate", body, &resp); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("generate: %s", resp.Error)
	}
	return resp.Response, nil
}

// GenerateStream runs a streaming completion, calling fn for every token
// fragment as it arrives. Returns when the model reports done, fn returns an
// error, or the context is cancelled.
func (c *Client) GenerateStream(ctx context.Context, req domain.GenerateRequest, fn func(fragment string) error) error {
	body := generateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: true,
		Options: generateOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
			Stop:        req.Stop,
		},
	}

	httpResp, err := c.post(ctx, "/api/generate", body)
	if err != nil {
		return fmt.Errorf("generate stream: %w", err)
	}
	defer httpResp.Body.Close()

	dec := json.NewDecoder(httpResp.Body)
	for {
		var chunk generateResponse
		if err := dec.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("generate stream: decode: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("generate stream: %s", chunk.Error)
		}
		if chunk.Response != "" {
			if err := fn(chunk.Response); err != nil {
				return err
			}
		}
		if chunk.Done {
			return nil
		}
	}
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the names of all locally available models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	httpResp, err := c.get(ctx, "/api/tags")
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer httpResp.Body.Close()

	var resp tagsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("list models: decode: %w", err)
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// IsModelAvailable reports whether the named model is present locally.
// A model tag without an explicit version matches any version of that model.
func (c *Client) IsModelAvailable(ctx context.Context, model string) (bool, error) {
	names, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == model || strings.SplitN(name, ":", 2)[0] == model {
			return true, nil
		}
	}
	return false, nil
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

type pullResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Pull downloads the named model into the runtime. Blocking; callers should
// pass a context with a generous deadline.
func (c *Client) Pull(ctx context.Context, model string) error {
	var resp pullResponse
	if err := c.postJSON(ctx, "/api/pull", pullRequest{Name: model, Stream: false}, &resp); err != nil {
		return fmt.Errorf("pull model %q: %w", model, err)
	}
	if resp.Error != "" {
		return fmt.Errorf("pull model %q: %s: %w", model, resp.Error, domain.ErrModelNotFound)
	}
	c.logger.Info("model pulled", zap.String("model", model), zap.String("status", resp.Status))
	return nil
}

type embeddingsRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingsResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embeddings computes an embedding vector for the given text.
func (c *Client) Embeddings(ctx context.Context, model, text string) ([]float32, error) {
	var resp embeddingsResponse
	if err := c.postJSON(ctx, "/api/embeddings", embeddingsRequest{Model: model, Prompt: text}, &resp); err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}
	return resp.Embedding, nil
}

// HealthCheck verifies the runtime is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.ListModels(ctx); err != nil {
		return fmt.Errorf("ollama health check: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return nil, err
	}
	return c.doOK(req)
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doOK(req)
}

// postJSON posts body and decodes the full response into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// doOK executes the request and turns non-2xx responses into errors carrying
// a snippet of the response body.
func (c *Client) doOK(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("ollama API %s: status %d: %s: %w",
				req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)), domain.ErrModelNotFound)
		}
		return nil, fmt.Errorf("ollama API %s: status %d: %s",
			req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return resp, nil
}
