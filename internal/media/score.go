package media

import (
	"strings"

	"github.com/veritaslabs/veritas/internal/domain"
)

// Scoring is additive points, not a probability. The weights encode a
// strict preference order: right place beats right subject, and a
// provably wrong place outweighs several keyword hits.
const (
	scoreGeoExact        = 50
	scoreGeoAlias        = 40
	scoreCoastalContext  = 20
	scoreRegionMatch     = 40
	scoreRegionMismatch  = -30
	scorePrimaryKeyword  = 15
	scoreSecondaryWord   = 5
	scoreQueryWord       = 10
	scoreGenericTerm     = -10
	scorePhotographerLoc = 20
)

// DefaultMinScore is the floor below which a candidate is dropped
// entirely. Irrelevant media must never surface over no media.
const DefaultMinScore = 40.0

// Score rates one search candidate against the extracted keywords and the
// query that produced it. Negative totals clamp to 0.
func Score(candidate domain.SearchResult, kw Keywords, query string) float64 {
	text := strings.ToLower(candidate.Title + " " + candidate.Snippet)
	attribution := strings.ToLower(candidate.Attribution)
	score := 0

	geoMatched := false
	if kw.Geographic != "" {
		switch {
		case containsTerm(text, kw.Geographic):
			score += scoreGeoExact
			geoMatched = true
		case aliasInText(text, kw.Geographic):
			score += scoreGeoAlias
			geoMatched = true
		}
		if geoMatched && coastalCities[kw.Geographic] && containsAny(text, marineTerms) {
			score += scoreCoastalContext
		}
	}

	if kw.Region != "" {
		if containsTerm(text, kw.Region) {
			score += scoreRegionMatch
		} else if other := mentionedOtherRegion(text, kw.Region); other != "" {
			score += scoreRegionMismatch
		}
		if containsTerm(attribution, kw.Region) {
			score += scorePhotographerLoc
		}
	}

	for _, word := range kw.Primary {
		if containsTerm(text, word) {
			score += scorePrimaryKeyword
		}
	}
	for _, word := range kw.Secondary {
		if containsTerm(text, word) {
			score += scoreSecondaryWord
		}
	}
	for _, word := range significantWords(query) {
		if containsTerm(text, word) {
			score += scoreQueryWord
		}
	}

	for _, term := range genericStockTerms {
		score += scoreGenericTerm * strings.Count(text, term)
	}

	if score < 0 {
		score = 0
	}
	return float64(score)
}

// aliasInText reports whether any known alias of the canonical city
// appears in the text.
func aliasInText(text, canonical string) bool {
	for alias, city := range cityAliases {
		if city == canonical && containsTerm(text, alias) {
			return true
		}
	}
	return false
}

// mentionedOtherRegion returns a known region named in the text that is
// not the target, or empty.
func mentionedOtherRegion(text, target string) string {
	for region := range knownRegions {
		if region != target && containsTerm(text, region) {
			return region
		}
	}
	return ""
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if containsTerm(text, t) {
			return true
		}
	}
	return false
}
