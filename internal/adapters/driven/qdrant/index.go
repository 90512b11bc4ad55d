// Package qdrant provides a VectorIndex backed by Qdrant's REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

// Ensure Index implements VectorIndex
var _ driven.VectorIndex = (*Index)(nil)

// Config holds connection settings for the Qdrant instance.
type Config struct {
	// URL is the base URL of the Qdrant REST API (default: http://localhost:6333).
	URL string

	// APIKey authenticates requests when the instance requires it.
	APIKey string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Index is a REST client to Qdrant. Collections use cosine distance; the
// dimension of each known collection is cached so mismatched vectors are
// rejected before they reach the server.
type Index struct {
	url    string
	apiKey string
	client *http.Client

	mu   sync.RWMutex
	dims map[string]int // collection -> vector size
}

// NewIndex creates a new Qdrant-backed VectorIndex
func NewIndex(cfg Config) *Index {
	if cfg.URL == "" {
		cfg.URL = "http://localhost:6333"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Index{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
		dims:   make(map[string]int),
	}
}

// collectionInfo is the subset of Qdrant's collection response we read.
type collectionInfo struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// EnsureCollection creates the collection if missing and verifies its vector
// size when it already exists.
func (x *Index) EnsureCollection(ctx context.Context, collection string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: invalid dimension %d", domain.ErrInvalidConfig, dimensions)
	}

	x.mu.RLock()
	known, ok := x.dims[collection]
	x.mu.RUnlock()
	if ok {
		if known != dimensions {
			return fmt.Errorf("%w: collection %s has size %d, want %d",
				domain.ErrDimensionMismatch, collection, known, dimensions)
		}
		return nil
	}

	status, body, err := x.do(ctx, http.MethodGet, "/collections/"+collection, nil)
	if err != nil {
		return err
	}
	switch {
	case status == http.StatusOK:
		var info collectionInfo
		if err := json.Unmarshal(body, &info); err != nil {
			return fmt.Errorf("parse collection info: %w", err)
		}
		size := info.Result.Config.Params.Vectors.Size
		if size != dimensions {
			return fmt.Errorf("%w: collection %s has size %d, want %d",
				domain.ErrDimensionMismatch, collection, size, dimensions)
		}
	case status == http.StatusNotFound:
		create := map[string]any{
			"vectors": map[string]any{
				"size":     dimensions,
				"distance": "Cosine",
			},
		}
		if status, _, err = x.do(ctx, http.MethodPut, "/collections/"+collection, create); err != nil {
			return err
		}
		if status >= 300 {
			return fmt.Errorf("%w: create collection %s returned status %d",
				domain.ErrIndexUnavailable, collection, status)
		}
	default:
		return fmt.Errorf("%w: get collection %s returned status %d",
			domain.ErrIndexUnavailable, collection, status)
	}

	x.mu.Lock()
	x.dims[collection] = dimensions
	x.mu.Unlock()
	return nil
}

// Upsert writes records as points keyed by chunk ID. Re-ingesting a document
// overwrites its existing points instead of duplicating them.
func (x *Index) Upsert(ctx context.Context, collection string, records []domain.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}

	x.mu.RLock()
	dims, ok := x.dims[collection]
	x.mu.RUnlock()
	for _, r := range records {
		if ok && len(r.Embedding) != dims {
			return fmt.Errorf("%w: vector for chunk %s has %d dimensions, want %d",
				domain.ErrDimensionMismatch, r.ChunkID, len(r.Embedding), dims)
		}
	}

	points := make([]map[string]any, len(records))
	for i, r := range records {
		points[i] = map[string]any{
			"id":     r.ChunkID,
			"vector": r.Embedding,
			"payload": map[string]any{
				"document_id": r.DocumentID,
				"chunk_id":    r.ChunkID,
				"seq":         r.Seq,
				"text":        r.Text,
			},
		}
	}

	status, _, err := x.do(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true",
		map[string]any{"points": points})
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("%w: upsert to %s returned status %d",
			domain.ErrIndexUnavailable, collection, status)
	}
	return nil
}

// searchResponse is the subset of Qdrant's search response we read.
type searchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns the topK nearest records by cosine similarity, best first.
// A missing collection yields no results rather than an error.
func (x *Index) Search(ctx context.Context, collection string, vector []float32, topK int) ([]domain.ScoredRecord, error) {
	if topK <= 0 {
		topK = 5
	}

	x.mu.RLock()
	dims, ok := x.dims[collection]
	x.mu.RUnlock()
	if ok && len(vector) != dims {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, collection %s wants %d",
			domain.ErrDimensionMismatch, len(vector), collection, dims)
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	status, body, err := x.do(ctx, http.MethodPost, "/collections/"+collection+"/points/search", req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	// Qdrant reports a query vector of the wrong size as a 400 with a
	// "Vector dimension error" status; that is configuration drift, not an
	// outage, so it must not look retryable.
	if status == http.StatusBadRequest && bytes.Contains(body, []byte("dimension")) {
		return nil, fmt.Errorf("%w: search in %s: %s",
			domain.ErrDimensionMismatch, collection, strings.TrimSpace(string(body)))
	}
	if status >= 300 {
		return nil, fmt.Errorf("%w: search in %s returned status %d",
			domain.ErrIndexUnavailable, collection, status)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	results := make([]domain.ScoredRecord, 0, len(resp.Result))
	for _, r := range resp.Result {
		rec := domain.IndexRecord{}
		if v, ok := r.Payload["chunk_id"].(string); ok {
			rec.ChunkID = v
		}
		if v, ok := r.Payload["document_id"].(string); ok {
			rec.DocumentID = v
		}
		if v, ok := r.Payload["seq"].(float64); ok {
			rec.Seq = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			rec.Text = v
		}
		results = append(results, domain.ScoredRecord{Record: rec, Score: r.Score})
	}
	return results, nil
}

// Reset drops the collection. Deleting a collection that does not exist
// succeeds.
func (x *Index) Reset(ctx context.Context, collection string) error {
	status, _, err := x.do(ctx, http.MethodDelete, "/collections/"+collection, nil)
	if err != nil {
		return err
	}
	if status >= 300 && status != http.StatusNotFound {
		return fmt.Errorf("%w: delete collection %s returned status %d",
			domain.ErrIndexUnavailable, collection, status)
	}

	x.mu.Lock()
	delete(x.dims, collection)
	x.mu.Unlock()
	return nil
}

// HealthCheck verifies the Qdrant instance is reachable.
func (x *Index) HealthCheck(ctx context.Context) error {
	status, _, err := x.do(ctx, http.MethodGet, "/collections", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrIndexUnavailable, status)
	}
	return nil
}

// do sends one request and returns the status code and body. Transport
// failures map to ErrIndexUnavailable.
func (x *Index) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, x.url+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %v", domain.ErrIndexUnavailable, err)
	}
	return resp.StatusCode, respBody, nil
}
