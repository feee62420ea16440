package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CreateDocument ingests a document. The server embeds the content and
// assigns the id.
func (c *Client) CreateDocument(ctx context.Context, req CreateDocumentRequest) (Document, error) {
	var doc Document
	if err := c.doJSON(ctx, http.MethodPost, "/documents", req, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// GetDocument returns a stored document by id.
func (c *Client) GetDocument(ctx context.Context, id string) (Document, error) {
	var doc Document
	if err := c.doJSON(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ListDocuments returns one page of stored documents. An empty cursor starts
// from the beginning; limit 0 uses the server default page size.
func (c *Client) ListDocuments(ctx context.Context, cursor string, limit int) (DocumentList, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/documents"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list DocumentList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return DocumentList{}, err
	}
	return list, nil
}

// DeleteDocument removes a stored document by id.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}
