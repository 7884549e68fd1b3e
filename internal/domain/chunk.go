package domain

import "fmt"

// Chunk is a bounded slice of source text sized for embedding.
// Chunks are immutable once created.
type Chunk struct {
	Text     string
	Index    int    // ordinal position within the source document
	SourceID string // identifier of the document the chunk came from
	Page     int    // 1-based page number when known, 0 otherwise
}

// EmbeddedChunk is a Chunk plus its embedding vector. Instances are owned
// by the vector store that created them.
type EmbeddedChunk struct {
	Chunk
	Embedding []float32
}

// EmbeddedText pairs a piece of text with its embedding. It is the unit
// returned by batch embedding: an oversized input is split before the
// provider call and comes back as multiple EmbeddedText parts.
type EmbeddedText struct {
	Text      string
	Embedding []float32
}

// ValidateChunk checks that a chunk is well-formed before embedding.
func ValidateChunk(c Chunk) error {
	if c.Text == "" {
		return fmt.Errorf("chunk text cannot be empty")
	}
	if c.Index < 0 {
		return fmt.Errorf("chunk index cannot be negative")
	}
	return nil
}
