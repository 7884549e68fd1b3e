package media

import "strings"

// GenerateQueries builds candidate search queries from keywords, most
// specific first. The caller tries them in order and stops at the first
// query that produces a qualifying candidate.
func GenerateQueries(kw Keywords) []string {
	var queries []string
	seen := map[string]bool{}

	add := func(parts ...string) {
		var kept []string
		for _, p := range parts {
			if p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return
		}
		q := strings.Join(kept, " ")
		if !seen[q] {
			seen[q] = true
			queries = append(queries, q)
		}
	}

	first := ""
	if len(kw.Primary) > 0 {
		first = kw.Primary[0]
	}

	if kw.Geographic != "" {
		add(kw.Geographic, first)
	}
	if kw.Region != "" {
		add(kw.Region, first)
	}
	if len(kw.Primary) > 0 {
		add(strings.Join(kw.Primary, " "))
	}
	if first != "" && len(kw.Secondary) > 0 {
		add(first, kw.Secondary[0])
	}

	// Single-keyword fallback so media search degrades to something
	// rather than nothing.
	switch {
	case first != "":
		add(first)
	case kw.Geographic != "":
		add(kw.Geographic)
	case kw.Region != "":
		add(kw.Region)
	}

	return queries
}
