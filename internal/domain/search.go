package domain

// SearchKind selects the class of search a provider performs.
type SearchKind string

const (
	SearchKindWeb   SearchKind = "web"
	SearchKindImage SearchKind = "image"
	SearchKindGIF   SearchKind = "gif"
	SearchKindVideo SearchKind = "video"
)

// SearchResult is the provider-agnostic shape every search adapter maps
// its native response into. Web results fill Title/Snippet; media results
// fill Attribution/ThumbnailURL. Results are request-scoped.
type SearchResult struct {
	Title        string
	Snippet      string
	URL          string
	ThumbnailURL string
	Attribution  string // photographer or uploader credit for media results
	Provider     string
	Score        float64 // relevance assigned by a downstream scorer
}

// IsValidSearchKind reports whether k is a recognized search kind.
func IsValidSearchKind(k SearchKind) bool {
	switch k {
	case SearchKindWeb, SearchKindImage, SearchKindGIF, SearchKindVideo:
		return true
	}
	return false
}
