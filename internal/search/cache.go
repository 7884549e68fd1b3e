package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/veritaslabs/veritas/internal/domain"
)

// DefaultCacheTTL absorbs duplicate calls produced by repeated
// candidate-query generation within one authoring session.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	results   []domain.SearchResult
	expiresAt time.Time
}

// resultCache is a TTL cache keyed by (query, options).
type resultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &resultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func cacheKey(query string, opts Options) string {
	return fmt.Sprintf("%s|%s|%d", opts.Kind, query, opts.Limit)
}

func (c *resultCache) get(query string, opts Options) ([]domain.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[cacheKey(query, opts)]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.results, true
}

func (c *resultCache) put(query string, opts Options, results []domain.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(query, opts)] = cacheEntry{
		results:   results,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Sweep evicts expired entries; it satisfies the maintenance worker's
// Sweeper interface.
func (c *resultCache) Sweep(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	return nil
}
