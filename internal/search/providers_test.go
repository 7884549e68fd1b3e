package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritaslabs/veritas/internal/domain"
)

func TestSerperProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"organic": [
				{"title": "Coastal towns of Maine", "link": "https://example.com/maine", "snippet": "A guide."},
				{"title": "No link", "link": "", "snippet": "dropped"},
				{"title": "Harbor life", "link": "https://example.com/harbor", "snippet": "Another."}
			]
		}`))
	}))
	defer server.Close()

	p := NewSerperProvider("test-key")
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "coastal towns", Options{Kind: domain.SearchKindWeb, Limit: 10})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Coastal towns of Maine", results[0].Title)
	assert.Equal(t, "https://example.com/maine", results[0].URL)
	assert.Equal(t, "A guide.", results[0].Snippet)
}

func TestSerperProvider_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewSerperProvider("test-key")
	p.baseURL = server.URL

	_, err := p.Search(context.Background(), "coastal towns", Options{Limit: 10})

	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSerperProvider_AvailableNeedsKeyAndWebKind(t *testing.T) {
	assert.False(t, NewSerperProvider("").Available(domain.SearchKindWeb))
	assert.False(t, NewSerperProvider("k").Available(domain.SearchKindImage))
	assert.True(t, NewSerperProvider("k").Available(domain.SearchKindWeb))
}

func TestPexelsProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "px-key", r.Header.Get("Authorization"))
		assert.Equal(t, "lighthouse", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"photos": [
				{
					"alt": "Lighthouse at dusk",
					"photographer": "Ana Costa",
					"src": {"large": "https://images.pexels.com/1/large.jpg", "tiny": "https://images.pexels.com/1/tiny.jpg"}
				}
			]
		}`))
	}))
	defer server.Close()

	p := NewPexelsProvider("px-key")
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "lighthouse", Options{Kind: domain.SearchKindImage, Limit: 5})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Lighthouse at dusk", results[0].Title)
	assert.Equal(t, "https://images.pexels.com/1/large.jpg", results[0].URL)
	assert.Equal(t, "https://images.pexels.com/1/tiny.jpg", results[0].ThumbnailURL)
	assert.Equal(t, "Photo by Ana Costa on Pexels", results[0].Attribution)
}

func TestGiphyProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gif-key", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{
					"title": "waves crashing",
					"images": {
						"original": {"url": "https://media.giphy.com/waves.gif"},
						"preview_gif": {"url": "https://media.giphy.com/waves-preview.gif"}
					}
				}
			]
		}`))
	}))
	defer server.Close()

	p := NewGiphyProvider("gif-key")
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "waves", Options{Kind: domain.SearchKindGIF, Limit: 5})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://media.giphy.com/waves.gif", results[0].URL)
	assert.Equal(t, "via GIPHY", results[0].Attribution)
}

func TestPixabayProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pb-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": [
				{
					"tags": "ocean, sunset",
					"user": "seastudio",
					"videos": {"medium": {"url": "https://cdn.pixabay.com/video/ocean.mp4", "thumbnail": "https://cdn.pixabay.com/video/ocean.jpg"}}
				}
			]
		}`))
	}))
	defer server.Close()

	p := NewPixabayProvider("pb-key")
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "ocean", Options{Kind: domain.SearchKindVideo, Limit: 5})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ocean, sunset", results[0].Title)
	assert.Equal(t, "Video by seastudio on Pixabay", results[0].Attribution)
}

func TestDuckDuckGoProvider_Search(t *testing.T) {
	page := `<html><body>
		<div class="result">
			<a class="result__a" href="/l/?uddg=https%3A%2F%2Fexample.com%2Ffirst">First result</a>
			<a class="result__snippet" href="#">First snippet text.</a>
		</div>
		<div class="result">
			<a class="result__a" href="https://example.com/second">Second result</a>
		</div>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "coastal towns", r.FormValue("q"))
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	p := NewDuckDuckGoProvider()
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "coastal towns", Options{Kind: domain.SearchKindWeb, Limit: 10})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "First result", results[0].Title)
	assert.Equal(t, "https://example.com/first", results[0].URL)
	assert.Equal(t, "First snippet text.", results[0].Snippet)
	assert.Equal(t, "https://example.com/second", results[1].URL)
}

func TestDuckDuckGoProvider_LimitHonored(t *testing.T) {
	page := `<html><body>
		<a class="result__a" href="https://example.com/1">One</a>
		<a class="result__a" href="https://example.com/2">Two</a>
		<a class="result__a" href="https://example.com/3">Three</a>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	p := NewDuckDuckGoProvider()
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "anything", Options{Kind: domain.SearchKindWeb, Limit: 2})

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDuckDuckGoProvider_AlwaysAvailableForWeb(t *testing.T) {
	p := NewDuckDuckGoProvider()
	assert.True(t, p.Available(domain.SearchKindWeb))
	assert.False(t, p.Available(domain.SearchKindImage))
}
