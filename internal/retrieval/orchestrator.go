// Package retrieval coordinates query embedding, vector search, and
// optional reranking into a single retrieve call, and formats the result
// into generation context.
package retrieval

import (
	"context"
	"log"
	"strings"

	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/rerank"
	"github.com/veritaslabs/veritas/internal/telemetry"
	"github.com/veritaslabs/veritas/internal/vectorstore"
)

// Reranker is the optional second-pass scorer. Satisfied by rerank.Client.
type Reranker interface {
	IsConfigured() bool
	Rerank(ctx context.Context, query string, documents []string, topK int) ([]rerank.Result, error)
}

// DefaultTopK is used when the caller passes topK <= 0.
const DefaultTopK = 5

// DefaultContextBudget bounds the formatted context passed downstream.
const DefaultContextBudget = 8000

// Orchestrator owns the read path: embed the query, over-fetch from the
// store, optionally rerank, and hand back scored results.
type Orchestrator struct {
	embedder vectorstore.Embedder
	reranker Reranker
}

// NewOrchestrator creates a retrieval orchestrator. reranker may be nil,
// which disables reranking regardless of the per-request flag.
func NewOrchestrator(embedder vectorstore.Embedder, reranker Reranker) *Orchestrator {
	return &Orchestrator{embedder: embedder, reranker: reranker}
}

// Retrieve returns the topK most relevant stored chunks for query.
// Candidates are over-fetched at twice topK so the reranker has material
// to reorder. Failures degrade to an empty result set: callers treat "no
// context" as a valid outcome, never as an error that blocks generation.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, store vectorstore.Store, topK int, useRerank bool) []domain.RetrievalResult {
	if strings.TrimSpace(query) == "" {
		return []domain.RetrievalResult{}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	ctx, span := telemetry.StartSpan(ctx, "Retrieval.Retrieve", telemetry.SpanAttributes{
		Query:     query,
		Operation: "retrieve",
	})
	defer span.End()

	queryVector, err := o.embedder.EmbedOne(ctx, query)
	if err != nil {
		log.Printf("retrieval: query embedding failed, returning empty context: %v", err)
		return []domain.RetrievalResult{}
	}

	matches, err := store.Search(ctx, queryVector, 2*topK)
	if err != nil {
		log.Printf("retrieval: vector search failed, returning empty context: %v", err)
		return []domain.RetrievalResult{}
	}
	if len(matches) == 0 {
		return []domain.RetrievalResult{}
	}

	if useRerank && o.reranker != nil && o.reranker.IsConfigured() && len(matches) > topK {
		if reranked, ok := o.rerankMatches(ctx, query, matches, topK); ok {
			return reranked
		}
		// Reranking is a precision optimization; fall back to vector order.
	}

	if len(matches) > topK {
		matches = matches[:topK]
	}
	results := make([]domain.RetrievalResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, domain.RetrievalResult{
			Text:       m.Text,
			Score:      m.Score,
			SourceID:   m.SourceID,
			ChunkIndex: m.Index,
		})
	}
	return results
}

func (o *Orchestrator) rerankMatches(ctx context.Context, query string, matches []vectorstore.Match, topK int) ([]domain.RetrievalResult, bool) {
	documents := make([]string, len(matches))
	for i, m := range matches {
		documents[i] = m.Text
	}

	ranked, err := o.reranker.Rerank(ctx, query, documents, topK)
	if err != nil {
		log.Printf("retrieval: rerank failed, falling back to vector order: %v", err)
		return nil, false
	}

	results := make([]domain.RetrievalResult, 0, len(ranked))
	for _, r := range ranked {
		m := matches[r.Index]
		results = append(results, domain.RetrievalResult{
			Text:       m.Text,
			Score:      float32(r.Score),
			SourceID:   m.SourceID,
			ChunkIndex: m.Index,
			Reranked:   true,
		})
	}
	return results, true
}

// FormatContext concatenates result texts, most relevant first, into a
// single context string under byteBudget. Truncation happens before a
// result that would not fit, never mid-result.
func FormatContext(results []domain.RetrievalResult, byteBudget int) string {
	if byteBudget <= 0 {
		byteBudget = DefaultContextBudget
	}

	const separator = "\n\n"
	var b strings.Builder
	for _, r := range results {
		needed := len(r.Text)
		if b.Len() > 0 {
			needed += len(separator)
		}
		if b.Len()+needed > byteBudget {
			break
		}
		if b.Len() > 0 {
			b.WriteString(separator)
		}
		b.WriteString(r.Text)
	}
	return b.String()
}
