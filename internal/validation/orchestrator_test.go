package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/search"
)

type fixedSearcher struct {
	results []domain.SearchResult
	calls   int
}

func (s *fixedSearcher) Search(ctx context.Context, query string, opts search.Options) []domain.SearchResult {
	s.calls++
	return s.results
}

func newTestOrchestrator(searcher Searcher, maxSearches int) *Orchestrator {
	o := NewOrchestrator(searcher, maxSearches)
	o.pacer = rate.NewLimiter(rate.Inf, 0)
	return o
}

func unrelatedResults(n int) []domain.SearchResult {
	results := make([]domain.SearchResult, n)
	for i := range results {
		results[i] = domain.SearchResult{Title: "Gardening basics", Snippet: "How to grow tomatoes."}
	}
	return results
}

func TestValidate_UnsupportedNumericClaimIsHallucination(t *testing.T) {
	searcher := &fixedSearcher{results: unrelatedResults(5)}
	o := newTestOrchestrator(searcher, 5)

	doc := Document{
		Introduction: "The lighthouse at Ponta Verde stands 4500 meters above the harbor entrance.",
	}

	report := o.Validate(context.Background(), doc)

	assert.False(t, report.IsValid)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, "hallucination", report.Issues[0].Type)
	assert.Equal(t, domain.SeverityHigh, report.Issues[0].Severity)
	assert.Equal(t, 1, report.ClaimsChecked)
	assert.NotEmpty(t, report.Suggestions)
}

func TestValidate_SupportedClaimsPass(t *testing.T) {
	searcher := &fixedSearcher{results: []domain.SearchResult{
		{Title: "Harbor statistics", Snippet: "The port handles 4 million containers annually per the authority."},
		{Title: "Trade journal", Snippet: "Port throughput: 4 million containers handles annually."},
	}}
	o := newTestOrchestrator(searcher, 5)

	doc := Document{
		Sections: []Section{{
			Heading: "Trade",
			Content: "The port handles 4 million containers annually.",
		}},
	}

	report := o.Validate(context.Background(), doc)

	assert.True(t, report.IsValid)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 1, report.ClaimsChecked)
	assert.Greater(t, report.OverallConfidence, 0.6)
}

func TestValidate_SearchCapSkipsRemainingClaims(t *testing.T) {
	searcher := &fixedSearcher{results: unrelatedResults(3)}
	o := newTestOrchestrator(searcher, 2)

	doc := Document{
		Introduction: "The port moved 4 million tons of cargo last year. " +
			"Container traffic grew 12 percent over the decade. " +
			"The harbor channel is dredged to 15 meters depth.",
		Summary: "Nearly 8 thousand people work on the docks today.",
	}

	report := o.Validate(context.Background(), doc)

	assert.Equal(t, 2, report.ClaimsChecked)
	assert.Equal(t, 2, report.ClaimsSkipped)
	assert.Equal(t, 2, searcher.calls)
}

func TestValidate_NoClaimsIsValid(t *testing.T) {
	searcher := &fixedSearcher{}
	o := newTestOrchestrator(searcher, 5)

	report := o.Validate(context.Background(), Document{Introduction: "Welcome to our guide."})

	assert.True(t, report.IsValid)
	assert.InDelta(t, 1.0, report.OverallConfidence, 1e-9)
	assert.Equal(t, 0, searcher.calls)
}

func TestValidate_SectionNameOnIssues(t *testing.T) {
	searcher := &fixedSearcher{results: unrelatedResults(5)}
	o := newTestOrchestrator(searcher, 5)

	doc := Document{
		Sections: []Section{{
			Heading: "History",
			Content: "The fortress walls stretch 9 kilometers around the old town.",
		}},
	}

	report := o.Validate(context.Background(), doc)

	require.NotEmpty(t, report.Issues)
	assert.Equal(t, "section: History", report.Issues[0].Section)
}
