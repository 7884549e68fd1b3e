// Package vectorstore holds embedded chunks and serves exact
// cosine-similarity search over them.
package vectorstore

import (
	"context"
	"math"

	"github.com/veritaslabs/veritas/internal/domain"
)

// Match is one search hit: the stored chunk plus its similarity score.
type Match struct {
	domain.EmbeddedChunk
	Score float32
}

// SourceCount reports how many chunks a source document contributed.
type SourceCount struct {
	SourceID string
	Chunks   int
}

// Embedder is the batched embedding dependency used by AddBatch. The
// interface is satisfied by openai.Client.
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]domain.EmbeddedText, error)
}

// Store is the vector store contract. Implementations must keep every
// stored embedding at the same dimensionality and fail fast on mismatch.
// The interface allows swapping the exact scan for an approximate index
// or a networked store without changing callers.
type Store interface {
	// Add embeds and stores a single chunk.
	Add(ctx context.Context, chunk domain.Chunk) error
	// AddBatch embeds chunks through the batched embedding gateway and
	// stores the results, preserving chunk order.
	AddBatch(ctx context.Context, chunks []domain.Chunk) error
	// Search returns the top-k stored chunks by cosine similarity,
	// ties broken by insertion order.
	Search(ctx context.Context, queryVector []float32, k int) ([]Match, error)
	// RemoveBySource deletes all chunks belonging to a source document
	// and returns how many were removed.
	RemoveBySource(ctx context.Context, sourceID string) (int, error)
	// Sources lists stored source documents with their chunk counts.
	Sources(ctx context.Context) ([]SourceCount, error)
	// Clear removes everything.
	Clear(ctx context.Context) error
	// Size returns the number of stored chunks.
	Size(ctx context.Context) (int, error)
}

// CosineSimilarity computes dot(a,b)/(|a||b|) clamped to [0,1]. Either
// vector being zero is degenerate and scores 0 rather than dividing by
// zero.
func CosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return float32(score)
}
