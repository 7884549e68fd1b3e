package domain

// RetrievalResult is one ranked context block produced for a query.
// Results are request-scoped and never persisted.
type RetrievalResult struct {
	Text       string
	Score      float32 // relevance in [0,1]
	SourceID   string
	ChunkIndex int
	Reranked   bool
}
