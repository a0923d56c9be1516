package client

import (
	"net/url"
	"time"
)

// Document is a stored corpus document
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchHit is a ranked search result
type SearchHit struct {
	ID       string    `json:"id"`
	Score    float64   `json:"score"`
	Document *Document `json:"document"`
}

// AddDocument stores text. An empty id lets the server generate one.
func (c *Client) AddDocument(id, text string) (*Document, error) {
	var doc Document
	body := map[string]string{"id": id, "text": text}
	if err := c.call("POST", "/_docs", body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocument fetches a document by id
func (c *Client) GetDocument(id string) (*Document, error) {
	var doc Document
	if err := c.call("GET", "/_docs/"+escape(id), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns every document in id order
func (c *Client) ListDocuments() ([]Document, error) {
	var docs []Document
	if err := c.call("GET", "/_docs", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument removes a document
func (c *Client) DeleteDocument(id string) error {
	return c.call("DELETE", "/_docs/"+escape(id), nil, nil)
}

// Search ranks documents against query. limit <= 0 uses the server default.
func (c *Client) Search(query string, limit int) ([]SearchHit, error) {
	var hits []SearchHit
	body := map[string]any{"query": query, "limit": limit}
	if err := c.call("POST", "/_search", body, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

// DocumentVectors vectorizes the whole corpus
func (c *Client) DocumentVectors(mode string) (*Vectors, error) {
	var result Vectors
	path := "/_docs/_vectors?mode=" + url.QueryEscape(mode)
	if err := c.call("GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
