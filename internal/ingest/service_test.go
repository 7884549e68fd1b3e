package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritaslabs/veritas/internal/chunker"
	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/vectorstore"
)

type unitEmbedder struct{}

func (unitEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (unitEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]domain.EmbeddedText, error) {
	out := make([][]domain.EmbeddedText, len(texts))
	for i, t := range texts {
		out[i] = []domain.EmbeddedText{{Text: t, Embedding: []float32{1, 0}}}
	}
	return out, nil
}

type recordingArchiver struct {
	puts    map[string]string
	deletes []string
	putErr  error
}

func newRecordingArchiver() *recordingArchiver {
	return &recordingArchiver{puts: map[string]string{}}
}

func (a *recordingArchiver) PutDocument(ctx context.Context, sourceID, text string) error {
	if a.putErr != nil {
		return a.putErr
	}
	a.puts[sourceID] = text
	return nil
}

func (a *recordingArchiver) DeleteDocument(ctx context.Context, sourceID string) error {
	a.deletes = append(a.deletes, sourceID)
	return nil
}

func newTestService(archiver Archiver) (*Service, *vectorstore.MemoryStore) {
	store := vectorstore.NewMemoryStore(unitEmbedder{})
	return NewService(store, chunker.DefaultConfig(), archiver), store
}

func TestIngest_StoresChunks(t *testing.T) {
	svc, store := newTestService(nil)

	result, err := svc.Ingest(context.Background(), "doc-1", "First paragraph.\n\nSecond paragraph.")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", result.SourceID)
	assert.Greater(t, result.Chunks, 0)

	size, err := store.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.Chunks, size)
}

func TestIngest_GeneratesSourceID(t *testing.T) {
	svc, _ := newTestService(nil)

	result, err := svc.Ingest(context.Background(), "", "Some document text.")

	require.NoError(t, err)
	assert.NotEmpty(t, result.SourceID)
}

func TestIngest_EmptyDocumentRejected(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.Ingest(context.Background(), "doc-1", "   \n\n  ")

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestIngest_ArchivesRawText(t *testing.T) {
	archiver := newRecordingArchiver()
	svc, _ := newTestService(archiver)

	_, err := svc.Ingest(context.Background(), "doc-1", "Document body.")

	require.NoError(t, err)
	assert.Equal(t, "Document body.", archiver.puts["doc-1"])
}

func TestIngest_ArchiveFailureIsNotFatal(t *testing.T) {
	archiver := newRecordingArchiver()
	archiver.putErr = errors.New("bucket unavailable")
	svc, store := newTestService(archiver)

	_, err := svc.Ingest(context.Background(), "doc-1", "Document body.")

	require.NoError(t, err)
	size, err := store.Size(context.Background())
	require.NoError(t, err)
	assert.Greater(t, size, 0)
}

func TestDeleteSource_RemovesChunksAndArchive(t *testing.T) {
	archiver := newRecordingArchiver()
	svc, store := newTestService(archiver)

	_, err := svc.Ingest(context.Background(), "doc-1", "Document body.")
	require.NoError(t, err)

	removed, err := svc.DeleteSource(context.Background(), "doc-1")

	require.NoError(t, err)
	assert.Greater(t, removed, 0)
	assert.Equal(t, []string{"doc-1"}, archiver.deletes)

	size, err := store.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestDeleteSource_UnknownSource(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.DeleteSource(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestListSources(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.Ingest(context.Background(), "doc-1", "First document.")
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), "doc-2", "Second document.")
	require.NoError(t, err)

	sources, err := svc.ListSources(context.Background())

	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "doc-1", sources[0].SourceID)
	assert.Equal(t, "doc-2", sources[1].SourceID)
}
