// Package embedding talks to the embedding service and caches vectors
// for the duration of a run.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/logging"
)

// ErrUnavailable reports that the embedding service could not produce a
// vector. Semantic checks fail closed on it.
var ErrUnavailable = errors.New("embedding service unavailable")

// Client produces embedding vectors for text.
type Client interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// HTTPClient embeds text via an Ollama-compatible /api/embeddings
// endpoint.
type HTTPClient struct {
	http    *http.Client
	url     string
	model   string
	timeout time.Duration
}

// NewHTTPClient builds an HTTPClient from the embedding configuration.
func NewHTTPClient(cfg appconfig.EmbeddingConfig) *HTTPClient {
	return &HTTPClient{
		http:    &http.Client{},
		url:     strings.TrimRight(cfg.URL, "/"),
		model:   cfg.Model,
		timeout: cfg.Timeout(),
	}
}

// Embed requests an embedding vector for text. Every failure mode wraps
// ErrUnavailable so callers can fail closed with errors.Is.
func (c *HTTPClient) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(c.model) == "" {
		return nil, fmt.Errorf("%w: embedding model is empty", ErrUnavailable)
	}

	payload := map[string]any{
		"model":  c.model,
		"prompt": text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.LogModelCall("request", c.url, c.model, fmt.Sprintf("embed %d chars", len(text)))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: %s: %s", ErrUnavailable, resp.Status, strings.TrimSpace(string(raw)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrUnavailable, err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrUnavailable)
	}
	return parsed.Embedding, nil
}
