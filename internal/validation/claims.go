// Package validation grounds generated prose against web evidence: it
// extracts verifiable claims, checks each against search results, and
// rolls the outcomes up into a per-document validation report.
package validation

import (
	"regexp"
	"sort"
	"strings"

	"github.com/veritaslabs/veritas/internal/domain"
)

// maxClaimsPerText caps extraction output. Verification cost scales with
// claim count, so only the highest-priority claims survive.
const maxClaimsPerText = 3

const minClaimLength = 30

// Boilerplate openers mark sentences that read as greeting or
// instruction rather than assertion.
var boilerplateOpeners = regexp.MustCompile(`(?i)^\s*(welcome|let'?s|please|remember|note that|in this (article|section|guide)|i |we |you |here )`)

var (
	statisticPattern    = regexp.MustCompile(`(?i)\d+(\.\d+)?\s*(%|percent|million|billion|thousand|kilometers?|km|miles?|meters?|kg|tons?|years?|people|residents|dollars|euros)`)
	definitionPattern   = regexp.MustCompile(`(?i)^\s*(the\s+|a\s+|an\s+)?[\w-]+(\s+[\w-]+){0,3}\s+(is|are|refers to|means|describes)\s+`)
	relationshipPattern = regexp.MustCompile(`(?i)\b(because|leads? to|causes?|results? in|due to|depends? on)\b`)
	modalPattern        = regexp.MustCompile(`(?i)\b(can|may|must|typically|often|generally|usually|always|never)\b`)
)

// Extraction priors per claim type, used for ranking within a type tier
// and carried on the claim for downstream reporting.
var typeConfidence = map[domain.ClaimType]float64{
	domain.ClaimTypeStatistic:    0.9,
	domain.ClaimTypeDefinition:   0.8,
	domain.ClaimTypeRelationship: 0.7,
	domain.ClaimTypeGeneralFact:  0.6,
}

var typePriority = map[domain.ClaimType]int{
	domain.ClaimTypeStatistic:    0,
	domain.ClaimTypeDefinition:   1,
	domain.ClaimTypeRelationship: 2,
	domain.ClaimTypeGeneralFact:  3,
}

// ExtractClaims pulls the most verification-worthy factual claims out of
// a block of prose. Sentences that read as boilerplate, or are too short
// to verify, are discarded; the rest are classified by surface pattern
// and ranked statistic first.
func ExtractClaims(text, section string) []domain.FactualClaim {
	var claims []domain.FactualClaim

	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < minClaimLength || boilerplateOpeners.MatchString(sentence) {
			continue
		}

		claimType, ok := classifySentence(sentence)
		if !ok {
			continue
		}
		claims = append(claims, domain.FactualClaim{
			Text:       sentence,
			Type:       claimType,
			Confidence: typeConfidence[claimType],
			Section:    section,
		})
	}

	sort.SliceStable(claims, func(i, j int) bool {
		pi, pj := typePriority[claims[i].Type], typePriority[claims[j].Type]
		if pi != pj {
			return pi < pj
		}
		return claims[i].Confidence > claims[j].Confidence
	})

	if len(claims) > maxClaimsPerText {
		claims = claims[:maxClaimsPerText]
	}
	return claims
}

// classifySentence maps a sentence onto a claim type, most verifiable
// pattern first.
func classifySentence(sentence string) (domain.ClaimType, bool) {
	switch {
	case statisticPattern.MatchString(sentence):
		return domain.ClaimTypeStatistic, true
	case definitionPattern.MatchString(sentence) && len(sentence) >= 40:
		return domain.ClaimTypeDefinition, true
	case relationshipPattern.MatchString(sentence):
		return domain.ClaimTypeRelationship, true
	case modalPattern.MatchString(sentence) && len(sentence) >= 50:
		return domain.ClaimTypeGeneralFact, true
	}
	return "", false
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				sentences = append(sentences, current.String())
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
