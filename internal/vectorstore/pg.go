package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/veritaslabs/veritas/internal/domain"
)

// PGStore is a Postgres/pgvector-backed Store. It exists so a deployment
// can swap the in-memory store for a networked one without touching
// callers; the chunks table's vector column fixes the dimensionality.
type PGStore struct {
	pool     *pgxpool.Pool
	embedder Embedder
	dim      int
}

// NewPGStore creates a pgvector-backed store. dim must match the vector
// column width created by the migrations.
func NewPGStore(pool *pgxpool.Pool, embedder Embedder, dim int) *PGStore {
	return &PGStore{pool: pool, embedder: embedder, dim: dim}
}

func (s *PGStore) checkDim(embedding []float32) error {
	if len(embedding) != s.dim {
		return domain.NewDomainErrorWithCause(
			domain.ErrCodeInternalError,
			fmt.Sprintf("embedding dimensionality mismatch: store has %d, got %d", s.dim, len(embedding)),
			domain.ErrDimensionMismatch,
		)
	}
	return nil
}

// Add embeds and stores a single chunk.
func (s *PGStore) Add(ctx context.Context, chunk domain.Chunk) error {
	if err := domain.ValidateChunk(chunk); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid chunk", err)
	}

	embedding, err := s.embedder.EmbedOne(ctx, chunk.Text)
	if err != nil {
		return fmt.Errorf("failed to embed chunk: %w", err)
	}
	if err := s.checkDim(embedding); err != nil {
		return err
	}

	return s.insert(ctx, chunk, embedding)
}

// AddBatch embeds chunks via the batched gateway and stores them in order.
func (s *PGStore) AddBatch(ctx context.Context, chunks []domain.Chunk) error {
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

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, parts := range embedded {
		for _, part := range parts {
			if err := s.checkDim(part.Embedding); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO chunks (source_id, chunk_index, page, content, embedding)
				 VALUES ($1, $2, $3, $4, $5)`,
				chunks[i].SourceID,
				chunks[i].Index,
				chunks[i].Page,
				part.Text,
				pgvector.NewVector(part.Embedding),
			)
			if err != nil {
				return fmt.Errorf("failed to insert chunk: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

func (s *PGStore) insert(ctx context.Context, chunk domain.Chunk, embedding []float32) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chunks (source_id, chunk_index, page, content, embedding)
		 VALUES ($1, $2, $3, $4, $5)`,
		chunk.SourceID,
		chunk.Index,
		chunk.Page,
		chunk.Text,
		pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// Search returns the top-k chunks by cosine similarity. Ordering by id
// as a secondary key keeps ties stable in insertion order.
func (s *PGStore) Search(ctx context.Context, queryVector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return []Match{}, nil
	}
	if err := s.checkDim(queryVector); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT source_id, chunk_index, page, content, embedding,
		        1 - (embedding <=> $1) AS score
		 FROM chunks
		 ORDER BY embedding <=> $1, id
		 LIMIT $2`,
		pgvector.NewVector(queryVector), k,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var vec pgvector.Vector
		var score float64
		if err := rows.Scan(&m.SourceID, &m.Index, &m.Page, &m.Text, &vec, &score); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		m.Embedding = vec.Slice()
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		m.Score = float32(score)
		matches = append(matches, m)
	}
	if matches == nil {
		matches = []Match{}
	}
	return matches, rows.Err()
}

// RemoveBySource deletes all chunks for a source document.
func (s *PGStore) RemoveBySource(ctx context.Context, sourceID string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chunks WHERE source_id = $1`, sourceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete source chunks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Sources lists stored sources with chunk counts.
func (s *PGStore) Sources(ctx context.Context) ([]SourceCount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT source_id, COUNT(*) FROM chunks GROUP BY source_id ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var out []SourceCount
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.SourceID, &sc.Chunks); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// Clear removes all stored chunks.
func (s *PGStore) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE chunks`)
	if err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	return nil
}

// Size returns the number of stored chunks.
func (s *PGStore) Size(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}
