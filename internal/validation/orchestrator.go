package validation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/time/rate"

	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/search"
	"github.com/veritaslabs/veritas/internal/telemetry"
)

// DefaultMaxSearches caps outbound searches per validation pass. Claims
// beyond the cap are reported as skipped, never retried.
const DefaultMaxSearches = 5

// hallucinationThreshold marks a claim as hallucinated: essentially no
// evidence agrees with it.
const hallucinationThreshold = 0.3

// documentConfidence is the mean confidence a document must clear.
const documentConfidence = 0.6

// searchInterval paces outbound validation searches.
const searchInterval = rate.Limit(2) // per second

// Searcher is the slice of the provider chain the orchestrator needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts search.Options) []domain.SearchResult
}

// Document is the generated content under validation.
type Document struct {
	Introduction string
	Sections     []Section
	Summary      string
}

// Section is one body section of a document.
type Section struct {
	Heading string
	Content string
}

// Orchestrator runs a grounding pass: extract claims from every part of
// a document, verify as many as the search budget allows, and roll the
// results into a single report.
type Orchestrator struct {
	searcher    Searcher
	maxSearches int
	pacer       *rate.Limiter
}

// NewOrchestrator creates a grounding orchestrator. maxSearches <= 0
// selects DefaultMaxSearches.
func NewOrchestrator(searcher Searcher, maxSearches int) *Orchestrator {
	if maxSearches <= 0 {
		maxSearches = DefaultMaxSearches
	}
	return &Orchestrator{
		searcher:    searcher,
		maxSearches: maxSearches,
		pacer:       rate.NewLimiter(searchInterval, 1),
	}
}

// Validate checks a document's claims against web evidence. One weak
// claim degrades the report rather than failing the pass: the report is
// always well formed, and callers treat low confidence as a quality
// signal, not an error.
func (o *Orchestrator) Validate(ctx context.Context, doc Document) domain.ValidationReport {
	ctx, span := telemetry.StartSpan(ctx, "Validation.Validate", telemetry.SpanAttributes{
		Operation: "validate",
	})
	defer span.End()

	report := domain.ValidationReport{IsValid: true}

	claims := o.collectClaims(doc)
	if len(claims) == 0 {
		report.OverallConfidence = 1
		return report
	}

	searchesUsed := 0
	var confidenceSum float64

	for _, claim := range claims {
		if searchesUsed >= o.maxSearches {
			report.ClaimsSkipped++
			continue
		}

		if err := o.pacer.Wait(ctx); err != nil {
			log.Printf("validation: pass cancelled: %v", err)
			report.ClaimsSkipped++
			continue
		}

		query := strings.Join(claimTerms(claim.Text), " ")
		results := o.searcher.Search(ctx, query, search.Options{Kind: domain.SearchKindWeb, Limit: 10})
		searchesUsed++

		outcome := CheckFact(claim, results)
		report.ClaimsChecked++
		confidenceSum += outcome.Confidence

		o.recordIssues(&report, outcome)
	}

	if report.ClaimsChecked > 0 {
		report.OverallConfidence = confidenceSum / float64(report.ClaimsChecked)
	} else {
		// Budget exhausted before any claim was checked.
		report.OverallConfidence = 0.5
	}

	hasHighSeverity := false
	for _, issue := range report.Issues {
		if issue.Severity == domain.SeverityHigh {
			hasHighSeverity = true
			break
		}
	}
	report.IsValid = report.OverallConfidence > documentConfidence && !hasHighSeverity

	return report
}

// recordIssues converts one fact-check outcome into report issues and
// suggestions. A hallucinated claim alone fails the document, regardless
// of the mean.
func (o *Orchestrator) recordIssues(report *domain.ValidationReport, outcome domain.FactCheckResult) {
	claim := outcome.Claim

	switch {
	case outcome.Confidence < hallucinationThreshold:
		report.Issues = append(report.Issues, domain.ValidationIssue{
			Type:     "hallucination",
			Severity: domain.SeverityHigh,
			Claim:    claim.Text,
			Section:  claim.Section,
			Detail:   fmt.Sprintf("no supporting evidence found (%s)", outcome.Explanation),
		})
		report.Suggestions = append(report.Suggestions,
			fmt.Sprintf("remove or rewrite the unsupported claim in %s: %q", claim.Section, claim.Text))
	case !outcome.IsValid:
		report.Issues = append(report.Issues, domain.ValidationIssue{
			Type:     "low_confidence",
			Severity: domain.SeverityMedium,
			Claim:    claim.Text,
			Section:  claim.Section,
			Detail:   outcome.Explanation,
		})
		report.Suggestions = append(report.Suggestions,
			fmt.Sprintf("verify the claim in %s against a primary source: %q", claim.Section, claim.Text))
	}
}

// collectClaims extracts claims from every non-empty part of the
// document, introduction first, in reading order.
func (o *Orchestrator) collectClaims(doc Document) []domain.FactualClaim {
	var claims []domain.FactualClaim

	if doc.Introduction != "" {
		claims = append(claims, ExtractClaims(doc.Introduction, "introduction")...)
	}
	for _, section := range doc.Sections {
		if section.Content == "" {
			continue
		}
		name := "section"
		if section.Heading != "" {
			name = "section: " + section.Heading
		}
		claims = append(claims, ExtractClaims(section.Content, name)...)
	}
	if doc.Summary != "" {
		claims = append(claims, ExtractClaims(doc.Summary, "summary")...)
	}
	return claims
}
