package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/veritaslabs/veritas/internal/domain"
)

// MemoryStore is an in-memory Store using a brute-force cosine scan.
// Appends happen under a write lock so a concurrent Search never observes
// a torn write. Exact search is O(n·d), which is fine at this scale.
type MemoryStore struct {
	mu       sync.RWMutex
	embedder Embedder
	chunks   []domain.EmbeddedChunk
	dim      int // fixed by the first stored embedding
}

// NewMemoryStore creates an empty in-memory store backed by embedder.
func NewMemoryStore(embedder Embedder) *MemoryStore {
	return &MemoryStore{embedder: embedder}
}

// Add embeds and stores a single chunk.
func (s *MemoryStore) Add(ctx context.Context, chunk domain.Chunk) error {
	if err := domain.ValidateChunk(chunk); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid chunk", err)
	}

	embedding, err := s.embedder.EmbedOne(ctx, chunk.Text)
	if err != nil {
		return fmt.Errorf("failed to embed chunk: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(domain.EmbeddedChunk{Chunk: chunk, Embedding: embedding})
}

// AddBatch embeds chunks via the batched gateway and stores them in order.
// A chunk re-split by the gateway is stored as multiple entries sharing
// the original ordinal index and source.
func (s *MemoryStore) AddBatch(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		if err := domain.ValidateChunk(c); err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid chunk", err)
		}
		texts[i] = c.Text
	}

	embedded, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed batch: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, parts := range embedded {
		for _, part := range parts {
			entry := domain.EmbeddedChunk{
				Chunk: domain.Chunk{
					Text:     part.Text,
					Index:    chunks[i].Index,
					SourceID: chunks[i].SourceID,
					Page:     chunks[i].Page,
				},
				Embedding: part.Embedding,
			}
			if err := s.appendLocked(entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// appendLocked enforces the dimensionality invariant. The first embedding
// fixes the store's dimension; any later mismatch indicates corruption
// and must fail fast.
func (s *MemoryStore) appendLocked(chunk domain.EmbeddedChunk) error {
	if len(chunk.Embedding) == 0 {
		return domain.ErrDimensionMismatch
	}
	if s.dim == 0 {
		s.dim = len(chunk.Embedding)
	} else if len(chunk.Embedding) != s.dim {
		return domain.NewDomainErrorWithCause(
			domain.ErrCodeInternalError,
			fmt.Sprintf("embedding dimensionality mismatch: store has %d, got %d", s.dim, len(chunk.Embedding)),
			domain.ErrDimensionMismatch,
		)
	}
	s.chunks = append(s.chunks, chunk)
	return nil
}

// Search scans the full collection and returns min(k, size) matches
// sorted by descending score, ties broken by insertion order.
func (s *MemoryStore) Search(ctx context.Context, queryVector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return []Match{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dim != 0 && len(queryVector) != s.dim {
		return nil, domain.NewDomainErrorWithCause(
			domain.ErrCodeInternalError,
			fmt.Sprintf("query dimensionality mismatch: store has %d, got %d", s.dim, len(queryVector)),
			domain.ErrDimensionMismatch,
		)
	}

	matches := make([]Match, 0, len(s.chunks))
	for _, c := range s.chunks {
		matches = append(matches, Match{
			EmbeddedChunk: c,
			Score:         CosineSimilarity(queryVector, c.Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// RemoveBySource deletes all chunks for a source document.
func (s *MemoryStore) RemoveBySource(ctx context.Context, sourceID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chunks[:0]
	removed := 0
	for _, c := range s.chunks {
		if c.SourceID == sourceID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	s.chunks = kept
	if len(s.chunks) == 0 {
		s.dim = 0
	}
	return removed, nil
}

// Sources lists stored sources in first-seen order with chunk counts.
func (s *MemoryStore) Sources(ctx context.Context) ([]SourceCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, c := range s.chunks {
		if _, seen := counts[c.SourceID]; !seen {
			order = append(order, c.SourceID)
		}
		counts[c.SourceID]++
	}

	out := make([]SourceCount, 0, len(order))
	for _, id := range order {
		out = append(out, SourceCount{SourceID: id, Chunks: counts[id]})
	}
	return out, nil
}

// Clear removes all stored chunks.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.dim = 0
	return nil
}

// Size returns the number of stored chunks.
func (s *MemoryStore) Size(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}
