// Package ingest owns the write path: raw document text in, chunked and
// embedded vectors in the store, with an optional archived copy of the
// original.
package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/veritaslabs/veritas/internal/chunker"
	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/vectorstore"
)

// Archiver keeps a raw copy of each ingested document. Satisfied by
// storage.Archive; nil disables archiving.
type Archiver interface {
	PutDocument(ctx context.Context, sourceID, text string) error
	DeleteDocument(ctx context.Context, sourceID string) error
}

// Result reports what one ingestion produced.
type Result struct {
	SourceID string
	Chunks   int
}

// Service chunks, embeds, and stores documents.
type Service struct {
	store    vectorstore.Store
	cfg      chunker.Config
	archiver Archiver
}

// NewService creates an ingestion service writing to store. archiver may
// be nil.
func NewService(store vectorstore.Store, cfg chunker.Config, archiver Archiver) *Service {
	return &Service{store: store, cfg: cfg, archiver: archiver}
}

// Ingest chunks text and stores the embedded chunks under sourceID. An
// empty sourceID gets a generated UUID. The archive write is best-effort:
// a failed archive is logged, not fatal, since the vectors are already
// durable in the store.
func (s *Service) Ingest(ctx context.Context, sourceID, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, domain.ErrEmptyDocument
	}
	if sourceID == "" {
		sourceID = uuid.NewString()
	}

	chunks := chunker.Chunk(text, s.cfg, sourceID)
	if len(chunks) == 0 {
		return Result{}, domain.ErrEmptyDocument
	}

	if err := s.store.AddBatch(ctx, chunks); err != nil {
		return Result{}, fmt.Errorf("failed to ingest document %s: %w", sourceID, err)
	}

	if s.archiver != nil {
		if err := s.archiver.PutDocument(ctx, sourceID, text); err != nil {
			log.Printf("ingest: archiving %s failed: %v", sourceID, err)
		}
	}

	return Result{SourceID: sourceID, Chunks: len(chunks)}, nil
}

// DeleteSource removes all stored chunks for a source and its archived
// copy. Deleting an unknown source returns domain.ErrSourceNotFound.
func (s *Service) DeleteSource(ctx context.Context, sourceID string) (int, error) {
	removed, err := s.store.RemoveBySource(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete source %s: %w", sourceID, err)
	}
	if removed == 0 {
		return 0, domain.ErrSourceNotFound
	}

	if s.archiver != nil {
		if err := s.archiver.DeleteDocument(ctx, sourceID); err != nil {
			log.Printf("ingest: deleting archived copy of %s failed: %v", sourceID, err)
		}
	}
	return removed, nil
}

// ListSources returns stored sources with their chunk counts.
func (s *Service) ListSources(ctx context.Context) ([]vectorstore.SourceCount, error) {
	return s.store.Sources(ctx)
}
