package search

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/ratelimit"
)

// Chain tries an ordered list of providers until one succeeds. Provider
// order encodes preference: paid, higher-quality backends first, keyless
// fallbacks last. One provider failing never aborts the chain, and the
// chain itself never returns an error: exhausting every provider yields
// an empty result set.
type Chain struct {
	providers []Provider
	limiter   *ratelimit.Limiter
	cache     *resultCache
}

// NewChain creates a provider chain. limiter may be nil (no local quota
// tracking), which is mainly for tests.
func NewChain(providers []Provider, limiter *ratelimit.Limiter, cacheTTL time.Duration) *Chain {
	return &Chain{
		providers: providers,
		limiter:   limiter,
		cache:     newResultCache(cacheTTL),
	}
}

// CacheSweeper exposes the TTL cache's eviction pass to the maintenance
// worker.
func (c *Chain) CacheSweeper() interface {
	Sweep(ctx context.Context) error
} {
	return c.cache
}

// Search runs query through the chain. Unavailable providers are skipped;
// rate-limit refusals and transient errors are logged and fall through to
// the next provider. The first non-empty response is cached and returned.
func (c *Chain) Search(ctx context.Context, query string, opts Options) []domain.SearchResult {
	if query == "" {
		return []domain.SearchResult{}
	}
	opts = opts.normalized()

	if cached, ok := c.cache.get(query, opts); ok {
		return cached
	}

	if c.limiter != nil {
		decision := c.limiter.CanMakeQuery()
		if !decision.Allowed {
			log.Printf("search: local quota exhausted, returning empty results (%s, retry in %s)",
				decision.Reason, decision.RetryAfter.Round(time.Second))
			return []domain.SearchResult{}
		}
		c.limiter.RecordQuery(query)
	}

	for _, p := range c.providers {
		if !p.Available(opts.Kind) {
			continue
		}

		results, err := p.Search(ctx, query, opts)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				log.Printf("search: provider %s rate limited, trying next: %v", p.Name(), err)
			} else {
				log.Printf("search: provider %s failed, trying next: %v", p.Name(), err)
			}
			continue
		}
		if len(results) == 0 {
			continue
		}

		for i := range results {
			results[i].Provider = p.Name()
		}
		c.cache.put(query, opts, results)
		return results
	}

	return []domain.SearchResult{}
}
