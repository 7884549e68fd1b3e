package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/veritaslabs/veritas/internal/domain"
)

const serperURL = "https://google.serper.dev/search"

// SerperProvider queries the Serper.dev Google Search API. It is the
// preferred web provider when an API key is configured.
type SerperProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerperProvider creates a Serper adapter. An empty key yields a
// provider that reports itself unavailable.
func NewSerperProvider(apiKey string) *SerperProvider {
	return &SerperProvider{
		apiKey:  apiKey,
		baseURL: serperURL,
		client:  newHTTPClient(),
	}
}

func (p *SerperProvider) Name() string { return "serper" }

func (p *SerperProvider) Available(kind domain.SearchKind) bool {
	return p.apiKey != "" && kind == domain.SearchKindWeb
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (p *SerperProvider) Search(ctx context.Context, query string, opts Options) ([]domain.SearchResult, error) {
	body, err := json.Marshal(serperRequest{Q: query, Num: opts.Limit})
	if err != nil {
		return nil, fmt.Errorf("failed to encode serper request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var decoded serperResponse
	if err := doJSON(p.client, req, &decoded); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(decoded.Organic))
	for _, item := range decoded.Organic {
		if item.Link == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
		})
		if len(results) >= opts.Limit {
			break
		}
	}
	return results, nil
}
