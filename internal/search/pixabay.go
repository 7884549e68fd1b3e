package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/veritaslabs/veritas/internal/domain"
)

const pixabayVideoURL = "https://pixabay.com/api/videos/"

// PixabayProvider searches Pixabay's stock video catalog.
type PixabayProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPixabayProvider(apiKey string) *PixabayProvider {
	return &PixabayProvider{
		apiKey:  apiKey,
		baseURL: pixabayVideoURL,
		client:  newHTTPClient(),
	}
}

func (p *PixabayProvider) Name() string { return "pixabay" }

func (p *PixabayProvider) Available(kind domain.SearchKind) bool {
	return p.apiKey != "" && kind == domain.SearchKindVideo
}

type pixabayResponse struct {
	Hits []struct {
		Tags   string `json:"tags"`
		User   string `json:"user"`
		Videos struct {
			Medium struct {
				URL       string `json:"url"`
				Thumbnail string `json:"thumbnail"`
			} `json:"medium"`
		} `json:"videos"`
	} `json:"hits"`
}

func (p *PixabayProvider) Search(ctx context.Context, query string, opts Options) ([]domain.SearchResult, error) {
	endpoint := fmt.Sprintf("%s?key=%s&q=%s&per_page=%d&safesearch=true",
		p.baseURL, url.QueryEscape(p.apiKey), url.QueryEscape(query), opts.Limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var decoded pixabayResponse
	if err := doJSON(p.client, req, &decoded); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(decoded.Hits))
	for _, hit := range decoded.Hits {
		if hit.Videos.Medium.URL == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			Title:        hit.Tags,
			URL:          hit.Videos.Medium.URL,
			ThumbnailURL: hit.Videos.Medium.Thumbnail,
			Attribution:  fmt.Sprintf("Video by %s on Pixabay", hit.User),
		})
	}
	return results, nil
}
