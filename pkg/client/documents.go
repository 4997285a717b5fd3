package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// DocumentsClient calls the document endpoints.
type DocumentsClient struct {
	client *Client
}

// Document is one stored document as the API reports it.
type Document struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	ContentSHA256 string    `json:"content_sha256"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
	Duplicate     bool      `json:"duplicate,omitempty"`
}

// DocumentList is a page of documents.
type DocumentList struct {
	Documents []*Document
	Page      Page
}

// Upload stores plain text as a document. An identical upload returns
// the existing document with Duplicate set.
func (dc *DocumentsClient) Upload(ctx context.Context, title, content string) (*Document, error) {
	var result Document
	_, err := dc.client.post(ctx, "/api/v1/documents",
		map[string]string{"title": title, "content": content}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches one document's metadata.
func (dc *DocumentsClient) Get(ctx context.Context, id string) (*Document, error) {
	var result Document
	_, err := dc.client.get(ctx, "/api/v1/documents/"+url.PathEscape(id), &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetContent fetches one document's stored text.
func (dc *DocumentsClient) GetContent(ctx context.Context, id string) (string, error) {
	body, err := dc.client.doRaw(ctx, http.MethodGet, "/api/v1/documents/"+url.PathEscape(id)+"/content")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// List pages through documents.
func (dc *DocumentsClient) List(ctx context.Context, page, pageSize int) (*DocumentList, error) {
	query := url.Values{}
	setIfPositive(query, "page", page)
	setIfPositive(query, "page_size", pageSize)

	var documents []*Document
	pg, err := dc.client.get(ctx, withQuery("/api/v1/documents", query), &documents)
	if err != nil {
		return nil, err
	}
	result := &DocumentList{Documents: documents}
	if pg != nil {
		result.Page = *pg
	}
	return result, nil
}
