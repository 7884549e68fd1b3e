package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/veritaslabs/veritas/internal/domain"
)

const giphyURL = "https://api.giphy.com/v1/gifs/search"

// GiphyProvider searches the GIPHY catalog for animated GIFs.
type GiphyProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGiphyProvider(apiKey string) *GiphyProvider {
	return &GiphyProvider{
		apiKey:  apiKey,
		baseURL: giphyURL,
		client:  newHTTPClient(),
	}
}

func (p *GiphyProvider) Name() string { return "giphy" }

func (p *GiphyProvider) Available(kind domain.SearchKind) bool {
	return p.apiKey != "" && kind == domain.SearchKindGIF
}

type giphyResponse struct {
	Data []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Images struct {
			Original struct {
				URL string `json:"url"`
			} `json:"original"`
			PreviewGIF struct {
				URL string `json:"url"`
			} `json:"preview_gif"`
		} `json:"images"`
	} `json:"data"`
}

func (p *GiphyProvider) Search(ctx context.Context, query string, opts Options) ([]domain.SearchResult, error) {
	endpoint := fmt.Sprintf("%s?api_key=%s&q=%s&limit=%d&rating=g",
		p.baseURL, url.QueryEscape(p.apiKey), url.QueryEscape(query), opts.Limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var decoded giphyResponse
	if err := doJSON(p.client, req, &decoded); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(decoded.Data))
	for _, gif := range decoded.Data {
		if gif.Images.Original.URL == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			Title:        gif.Title,
			URL:          gif.Images.Original.URL,
			ThumbnailURL: gif.Images.PreviewGIF.URL,
			Attribution:  "via GIPHY",
		})
	}
	return results, nil
}
