package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/veritaslabs/veritas/internal/domain"
)

const pexelsURL = "https://api.pexels.com/v1/search"

// PexelsProvider searches the Pexels stock photo catalog.
type PexelsProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPexelsProvider(apiKey string) *PexelsProvider {
	return &PexelsProvider{
		apiKey:  apiKey,
		baseURL: pexelsURL,
		client:  newHTTPClient(),
	}
}

func (p *PexelsProvider) Name() string { return "pexels" }

func (p *PexelsProvider) Available(kind domain.SearchKind) bool {
	return p.apiKey != "" && kind == domain.SearchKindImage
}

type pexelsResponse struct {
	Photos []struct {
		Alt          string `json:"alt"`
		URL          string `json:"url"`
		Photographer string `json:"photographer"`
		Src          struct {
			Large string `json:"large"`
			Tiny  string `json:"tiny"`
		} `json:"src"`
	} `json:"photos"`
}

func (p *PexelsProvider) Search(ctx context.Context, query string, opts Options) ([]domain.SearchResult, error) {
	endpoint := fmt.Sprintf("%s?query=%s&per_page=%d", p.baseURL, url.QueryEscape(query), opts.Limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.apiKey)

	var decoded pexelsResponse
	if err := doJSON(p.client, req, &decoded); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(decoded.Photos))
	for _, photo := range decoded.Photos {
		if photo.Src.Large == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			Title:        photo.Alt,
			URL:          photo.Src.Large,
			ThumbnailURL: photo.Src.Tiny,
			Attribution:  fmt.Sprintf("Photo by %s on Pexels", photo.Photographer),
		})
	}
	return results, nil
}
