package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/veritaslabs/veritas/internal/domain"
)

// Term-overlap thresholds for bucketing a search result as evidence.
const (
	supportingRatio  = 0.5
	conflictingRatio = 0.2
	maxClaimTerms    = 5

	// validConfidence is the floor a claim must clear, on top of
	// supporting evidence outnumbering conflicting evidence.
	validConfidence = 0.6
)

var claimStopwords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "because": true,
	"between": true, "could": true, "does": true, "from": true,
	"have": true, "into": true, "many": true, "more": true, "most": true,
	"over": true, "some": true, "such": true, "than": true, "that": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "through": true, "under": true, "very": true,
	"were": true, "what": true, "when": true, "where": true, "which": true,
	"will": true, "with": true, "would": true,
}

// CheckFact verifies one claim against already-fetched search results by
// term overlap. A result whose title+snippet contains more than half the
// claim's significant terms supports it; under a fifth conflicts;
// anything between is neutral and ignored.
func CheckFact(claim domain.FactualClaim, results []domain.SearchResult) domain.FactCheckResult {
	outcome := domain.FactCheckResult{Claim: claim}

	terms := claimTerms(claim.Text)
	if len(terms) == 0 || len(results) == 0 {
		outcome.Confidence = 0.5
		outcome.Explanation = "no usable evidence; confidence is neutral"
		return outcome
	}

	for _, result := range results {
		ratio := termOverlap(terms, result.Title+" "+result.Snippet)
		switch {
		case ratio > supportingRatio:
			outcome.SupportingEvidence = append(outcome.SupportingEvidence, result)
		case ratio < conflictingRatio:
			outcome.ConflictingEvidence = append(outcome.ConflictingEvidence, result)
		}
	}

	supporting := len(outcome.SupportingEvidence)
	conflicting := len(outcome.ConflictingEvidence)

	if supporting+conflicting == 0 {
		outcome.Confidence = 0.5
	} else {
		outcome.Confidence = float64(supporting) / float64(supporting+conflicting)
	}

	// Confidence alone is not enough: a single noisy match yields 1.0.
	outcome.IsValid = outcome.Confidence > validConfidence && supporting > conflicting
	outcome.Explanation = fmt.Sprintf("%d supporting, %d conflicting of %d results",
		supporting, conflicting, len(results))
	return outcome
}

// claimTerms extracts up to maxClaimTerms significant terms from the
// claim text: lowercased, longer than 3 runes, stop-words removed.
func claimTerms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := map[string]bool{}
	var terms []string
	for _, f := range fields {
		if len(f) <= 3 || claimStopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
		if len(terms) >= maxClaimTerms {
			break
		}
	}
	return terms
}

// termOverlap returns the fraction of terms present in text.
func termOverlap(terms []string, text string) float64 {
	lower := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
