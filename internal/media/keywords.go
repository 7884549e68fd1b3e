// Package media turns section content into search queries and scores the
// returned candidates for geographic and topical relevance, so that an
// authoring pipeline can attach media that actually depicts the subject.
package media

import (
	"strings"
	"unicode"
)

// Keywords is the distilled search vocabulary for one content section.
type Keywords struct {
	Primary    []string // from heading and topic, most specific
	Secondary  []string // from body content, supporting terms
	Geographic string   // canonical city name, empty when none detected
	Region     string   // region the city belongs to, empty when unknown
}

var stopwords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "best": true,
	"between": true, "both": true, "each": true, "from": true,
	"guide": true, "have": true, "here": true, "how": true, "into": true,
	"introduction": true, "more": true, "most": true, "other": true,
	"over": true, "some": true, "such": true, "than": true, "that": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "through": true, "under": true, "very": true,
	"what": true, "when": true, "where": true, "which": true, "will": true,
	"with": true, "within": true, "would": true, "your": true,
}

const (
	maxPrimaryKeywords   = 5
	maxSecondaryKeywords = 8
)

// ExtractKeywords distills a section's heading, body content, and overall
// topic into search keywords. Geographic terms are resolved through the
// gazetteer, including historical aliases, and removed from the plain
// keyword lists so they are not double counted.
func ExtractKeywords(heading, content, topic string) Keywords {
	var kw Keywords

	combined := strings.ToLower(heading + " " + topic + " " + content)
	kw.Geographic, kw.Region = detectGeography(combined)

	seen := map[string]bool{}
	if kw.Geographic != "" {
		for _, part := range strings.Fields(kw.Geographic) {
			seen[part] = true
		}
	}

	for _, word := range significantWords(heading + " " + topic) {
		if seen[word] {
			continue
		}
		seen[word] = true
		kw.Primary = append(kw.Primary, word)
		if len(kw.Primary) >= maxPrimaryKeywords {
			break
		}
	}

	for _, word := range significantWords(content) {
		if seen[word] {
			continue
		}
		seen[word] = true
		kw.Secondary = append(kw.Secondary, word)
		if len(kw.Secondary) >= maxSecondaryKeywords {
			break
		}
	}

	return kw
}

// detectGeography scans lowercased text for a known city (canonical or
// alias) and, failing that, a bare region name.
func detectGeography(text string) (city, region string) {
	for name := range cityRegions {
		if containsTerm(text, name) {
			return name, cityRegions[name]
		}
	}
	for alias, canonical := range cityAliases {
		if containsTerm(text, alias) {
			return canonical, cityRegions[canonical]
		}
	}
	for name := range knownRegions {
		if containsTerm(text, name) {
			return "", name
		}
	}
	return "", ""
}

// containsTerm reports whether term occurs in text on word boundaries.
// Terms may span several words ("hong kong").
func containsTerm(text, term string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		beforeOK := idx == 0 || !isWordByte(text[idx-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	r := rune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// significantWords lowercases, tokenizes, and drops short words and
// stopwords, preserving first-occurrence order.
func significantWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var words []string
	for _, f := range fields {
		if len(f) <= 3 || stopwords[f] {
			continue
		}
		words = append(words, f)
	}
	return words
}
