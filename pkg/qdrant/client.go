package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultTimeout = 15 * time.Second

// Client is the Qdrant HTTP API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Qdrant client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithAPIKey sets the key sent in the api-key header (Qdrant Cloud).
func (c *Client) WithAPIKey(apiKey string) *Client {
	c.apiKey = apiKey
	return c
}

// CollectionExists reports whether a collection with the given name exists.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	var out collectionExistsResponse
	if err := c.do(ctx, http.MethodGet, "/collections/"+url.PathEscape(name)+"/exists", nil, &out); err != nil {
		return false, err
	}
	return out.Result.Exists, nil
}

// CreateCollection creates a new collection with the given configuration.
func (c *Client) CreateCollection(ctx context.Context, req CreateCollectionRequest) error {
	return c.do(ctx, http.MethodPut, "/collections/"+url.PathEscape(req.Name), req, nil)
}

// DeleteCollection drops a collection and all of its points.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/collections/"+url.PathEscape(name), nil, nil)
}

// UpsertPoints inserts or updates points in a collection and waits for the write to be applied.
func (c *Client) UpsertPoints(ctx context.Context, collectionName string, req UpsertPointsRequest) error {
	return c.do(ctx, http.MethodPut, "/collections/"+url.PathEscape(collectionName)+"/points?wait=true", req, nil)
}

// SearchPoints performs semantic search in a collection.
func (c *Client) SearchPoints(ctx context.Context, collectionName string, req SearchRequest) (*SearchResponse, error) {
	var result SearchResponse
	if err := c.do(ctx, http.MethodPost, "/collections/"+url.PathEscape(collectionName)+"/points/search", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeletePoints deletes every point matching filter.
func (c *Client) DeletePoints(ctx context.Context, collectionName string, filter *Filter) error {
	if filter == nil || len(filter.Must) == 0 {
		return fmt.Errorf("qdrant: refusing to delete points without a filter")
	}
	return c.do(ctx, http.MethodPost, "/collections/"+url.PathEscape(collectionName)+"/points/delete?wait=true",
		DeletePointsRequest{Filter: filter}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call qdrant API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("qdrant API error: %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
