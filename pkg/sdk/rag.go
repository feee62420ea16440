package sdk

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Search returns documents semantically similar to the question, ranked by
// similarity.
func (c *Client) Search(ctx context.Context, q Query) (SearchResponse, error) {
	var resp SearchResponse
	if err := c.doJSON(ctx, http.MethodPost, "/search", q, &resp); err != nil {
		return SearchResponse{}, err
	}
	return resp, nil
}

// RAG answers the question from the stored documents in one blocking call.
func (c *Client) RAG(ctx context.Context, q Query) (RAGResponse, error) {
	var resp RAGResponse
	if err := c.doJSON(ctx, http.MethodPost, "/rag", q, &resp); err != nil {
		return RAGResponse{}, err
	}
	return resp, nil
}

// RAGStream answers the question as a server-sent event stream, invoking fn
// for every event in order. Returning an error from fn stops the stream and
// returns that error. The stream ends after a complete or error event.
func (c *Client) RAGStream(ctx context.Context, q Query, fn func(e StreamEvent) error) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/rag/stream", q)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamHTTP.Do(req)
	if err != nil {
		return fmt.Errorf("POST /rag/stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}

		var event StreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return fmt.Errorf("decode stream event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}
