// Package rerank calls an external reranking provider for second-pass
// precision reordering of retrieval candidates.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

const (
	// DefaultModel is the rerank model used when none is configured
	DefaultModel = "jina-reranker-v2-base-multilingual"

	requestTimeout = 30 * time.Second
)

var (
	// ErrNotConfigured is returned when the rerank endpoint or key is missing
	ErrNotConfigured = errors.New("rerank provider not configured")
	// ErrEmptyQuery is returned when the rerank query is empty
	ErrEmptyQuery = errors.New("rerank query cannot be empty")
	// ErrNoDocuments is returned when there is nothing to rerank
	ErrNoDocuments = errors.New("rerank documents cannot be empty")
)

// Result is one reranked candidate: the index into the input documents
// plus the provider's relevance score.
type Result struct {
	Index int
	Score float64
}

// Client wraps the rerank provider HTTP API.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	model      string
}

// Config holds rerank provider configuration.
type Config struct {
	URL    string
	APIKey string
	Model  string
}

// NewClient creates a rerank client. A zero-value config yields a client
// whose IsConfigured reports false; callers treat that as "skip reranking".
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		model:      model,
	}
}

// IsConfigured reports whether the provider endpoint and credentials are set.
func (c *Client) IsConfigured() bool {
	return c.url != "" && c.apiKey != ""
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank scores documents against query and returns up to topK results
// ordered by descending relevance.
func (c *Client) Rerank(ctx context.Context, query string, documents []string, topK int) ([]Result, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if len(documents) == 0 {
		return nil, ErrNoDocuments
	}
	if topK <= 0 || topK > len(documents) {
		topK = len(documents)
	}

	body, err := json.Marshal(rerankRequest{
		Model:     c.model,
		Query:     query,
		Documents: documents,
		TopN:      topK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rerank provider returned %d: %s", resp.StatusCode, string(payload))
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode rerank response: %w", err)
	}
	if len(parsed.Results) == 0 {
		return nil, errors.New("rerank response contained no results")
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Index < 0 || r.Index >= len(documents) {
			return nil, fmt.Errorf("rerank result index %d out of range", r.Index)
		}
		results = append(results, Result{Index: r.Index, Score: r.RelevanceScore})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}
