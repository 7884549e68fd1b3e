package media

import (
	"context"
	"sort"

	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/search"
)

// Searcher is the slice of the provider chain the finder needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts search.Options) []domain.SearchResult
}

// Finder orchestrates media lookup: keyword extraction, query generation,
// candidate scoring, and threshold filtering.
type Finder struct {
	searcher Searcher
	minScore float64
	limit    int
}

// NewFinder creates a finder over the given searcher. minScore <= 0
// selects DefaultMinScore.
func NewFinder(searcher Searcher, minScore float64, limit int) *Finder {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if limit <= 0 {
		limit = 10
	}
	return &Finder{searcher: searcher, minScore: minScore, limit: limit}
}

// Find returns scored media candidates for a content section, best first.
// Queries are tried most-specific first and the first query producing at
// least one qualifying candidate wins. An empty result is a normal
// outcome, not an error: no media beats wrong media.
func (f *Finder) Find(ctx context.Context, heading, content, topic string, kind domain.SearchKind) []domain.SearchResult {
	kw := ExtractKeywords(heading, content, topic)
	queries := GenerateQueries(kw)

	for _, query := range queries {
		candidates := f.searcher.Search(ctx, query, search.Options{Kind: kind, Limit: f.limit})
		if len(candidates) == 0 {
			continue
		}

		qualified := make([]domain.SearchResult, 0, len(candidates))
		for _, c := range candidates {
			c.Score = Score(c, kw, query)
			if c.Score >= f.minScore {
				qualified = append(qualified, c)
			}
		}
		if len(qualified) == 0 {
			continue
		}

		sort.SliceStable(qualified, func(i, j int) bool {
			return qualified[i].Score > qualified[j].Score
		})
		return qualified
	}

	return []domain.SearchResult{}
}
