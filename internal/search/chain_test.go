package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/ratelimit"
)

type stubProvider struct {
	name      string
	available bool
	results   []domain.SearchResult
	err       error
	calls     int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Available(kind domain.SearchKind) bool { return s.available }

func (s *stubProvider) Search(ctx context.Context, query string, opts Options) ([]domain.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func webResult(title string) domain.SearchResult {
	return domain.SearchResult{Title: title, URL: "https://example.com/" + title, Snippet: "about " + title}
}

func TestChain_FirstProviderWins(t *testing.T) {
	a := &stubProvider{name: "a", available: true, results: []domain.SearchResult{webResult("one")}}
	b := &stubProvider{name: "b", available: true, results: []domain.SearchResult{webResult("two")}}
	chain := NewChain([]Provider{a, b}, nil, DefaultCacheTTL)

	results := chain.Search(context.Background(), "coastal towns", Options{})

	require.Len(t, results, 1)
	assert.Equal(t, "one", results[0].Title)
	assert.Equal(t, "a", results[0].Provider)
	assert.Equal(t, 0, b.calls)
}

func TestChain_RateLimitedProviderFallsThrough(t *testing.T) {
	a := &stubProvider{name: "a", available: true, err: ErrRateLimited}
	b := &stubProvider{name: "b", available: true, results: []domain.SearchResult{webResult("two")}}
	chain := NewChain([]Provider{a, b}, nil, DefaultCacheTTL)

	results := chain.Search(context.Background(), "coastal towns", Options{})

	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Provider)
	assert.Equal(t, 1, a.calls)
}

func TestChain_TransientErrorFallsThrough(t *testing.T) {
	a := &stubProvider{name: "a", available: true, err: errors.New("connection reset")}
	b := &stubProvider{name: "b", available: true, results: []domain.SearchResult{webResult("two")}}
	chain := NewChain([]Provider{a, b}, nil, DefaultCacheTTL)

	results := chain.Search(context.Background(), "harbor history", Options{})

	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Provider)
}

func TestChain_UnavailableProviderSkipped(t *testing.T) {
	a := &stubProvider{name: "a", available: false, results: []domain.SearchResult{webResult("never")}}
	b := &stubProvider{name: "b", available: true, results: []domain.SearchResult{webResult("two")}}
	chain := NewChain([]Provider{a, b}, nil, DefaultCacheTTL)

	results := chain.Search(context.Background(), "harbor history", Options{})

	require.Len(t, results, 1)
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, "b", results[0].Provider)
}

func TestChain_AllProvidersFailReturnsEmpty(t *testing.T) {
	a := &stubProvider{name: "a", available: true, err: ErrRateLimited}
	b := &stubProvider{name: "b", available: true, err: errors.New("boom")}
	chain := NewChain([]Provider{a, b}, nil, DefaultCacheTTL)

	results := chain.Search(context.Background(), "harbor history", Options{})

	assert.Empty(t, results)
}

func TestChain_EmptyQueryReturnsEmpty(t *testing.T) {
	a := &stubProvider{name: "a", available: true, results: []domain.SearchResult{webResult("one")}}
	chain := NewChain([]Provider{a}, nil, DefaultCacheTTL)

	assert.Empty(t, chain.Search(context.Background(), "", Options{}))
	assert.Equal(t, 0, a.calls)
}

func TestChain_CachesResults(t *testing.T) {
	a := &stubProvider{name: "a", available: true, results: []domain.SearchResult{webResult("one")}}
	chain := NewChain([]Provider{a}, nil, DefaultCacheTTL)

	first := chain.Search(context.Background(), "coastal towns", Options{})
	second := chain.Search(context.Background(), "coastal towns", Options{})

	assert.Equal(t, first, second)
	assert.Equal(t, 1, a.calls)
}

func TestChain_CacheKeyIncludesKindAndLimit(t *testing.T) {
	a := &stubProvider{name: "a", available: true, results: []domain.SearchResult{webResult("one")}}
	chain := NewChain([]Provider{a}, nil, DefaultCacheTTL)

	chain.Search(context.Background(), "coastal towns", Options{Kind: domain.SearchKindWeb})
	chain.Search(context.Background(), "coastal towns", Options{Kind: domain.SearchKindImage})

	assert.Equal(t, 2, a.calls)
}

func TestChain_CacheExpires(t *testing.T) {
	a := &stubProvider{name: "a", available: true, results: []domain.SearchResult{webResult("one")}}
	chain := NewChain([]Provider{a}, nil, DefaultCacheTTL)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	chain.cache.now = func() time.Time { return now }

	chain.Search(context.Background(), "coastal towns", Options{})
	now = base.Add(DefaultCacheTTL + time.Second)
	chain.Search(context.Background(), "coastal towns", Options{})

	assert.Equal(t, 2, a.calls)
}

func TestChain_LocalQuotaBlocksBeforeProviders(t *testing.T) {
	a := &stubProvider{name: "a", available: true, results: []domain.SearchResult{webResult("one")}}
	limiter := ratelimit.NewLimiter(ratelimit.Limits{PerMinute: 1, PerHour: 10, PerDay: 10})
	chain := NewChain([]Provider{a}, limiter, DefaultCacheTTL)

	first := chain.Search(context.Background(), "coastal towns", Options{})
	require.Len(t, first, 1)

	// Second distinct query trips the per-minute ceiling.
	second := chain.Search(context.Background(), "harbor history", Options{})
	assert.Empty(t, second)
	assert.Equal(t, 1, a.calls)
}

func TestChain_CacheHitDoesNotConsumeQuota(t *testing.T) {
	a := &stubProvider{name: "a", available: true, results: []domain.SearchResult{webResult("one")}}
	limiter := ratelimit.NewLimiter(ratelimit.Limits{PerMinute: 1, PerHour: 10, PerDay: 10})
	chain := NewChain([]Provider{a}, limiter, DefaultCacheTTL)

	chain.Search(context.Background(), "coastal towns", Options{})
	cached := chain.Search(context.Background(), "coastal towns", Options{})

	require.Len(t, cached, 1)
	assert.Equal(t, 1, limiter.Counts().LastDay)
}
