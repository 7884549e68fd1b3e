package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/veritaslabs/veritas/internal/chunker"
	"github.com/veritaslabs/veritas/internal/domain"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536
	// DefaultMaxInputTokens is the per-input token ceiling enforced before any
	// provider call; the API rejects over-length inputs outright
	DefaultMaxInputTokens = 8000
	// DefaultBatchSize caps inputs per provider call to respect upstream rate limits
	DefaultBatchSize = 10
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error)
}

// Client converts text to embedding vectors, enforcing the provider's
// token and batch limits before any network call.
type Client struct {
	api        EmbeddingAPI
	dimensions int
	maxTokens  int
	batchSize  int
}

type OpenAIAdapter struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIAdapter(apiKey string, model openai.EmbeddingModel) *OpenAIAdapter {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OpenAIAdapter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// CreateEmbeddings calls the OpenAI API to embed a batch of inputs,
// preserving input order.
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: inputs,
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(resp.Data))
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

type Config struct {
	APIKey              string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
	MaxInputTokens      int
	BatchSize           int
}

// NewClient creates a new embedding client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new embedding client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	maxTokens := cfg.MaxInputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxInputTokens
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Client{
		api:        NewOpenAIAdapter(cfg.APIKey, model),
		dimensions: dimensions,
		maxTokens:  maxTokens,
		batchSize:  batchSize,
	}
}

// NewClientFromEnv creates a new embedding client using the OPENAI_API_KEY
// environment variable.
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// Dimensions returns the expected embedding dimensionality.
func (c *Client) Dimensions() int {
	if c.dimensions <= 0 {
		return DefaultEmbeddingDimensions
	}
	return c.dimensions
}

// EmbedOne generates an embedding for a single text. Input over the token
// ceiling is split and the part vectors are averaged into one.
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	parts := chunker.SplitOversized(text, c.maxTokens)
	if len(parts) == 0 {
		return nil, ErrEmptyText
	}

	vectors, err := c.embedAll(ctx, parts)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 1 {
		return vectors[0], nil
	}
	return meanVector(vectors), nil
}

// EmbedBatch embeds texts preserving order. Result i holds the embedded
// parts of input i: exactly one part for inputs under the token ceiling,
// several for inputs that had to be re-split before the provider call.
// Any provider error aborts the whole batch; there are no partial results.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]domain.EmbeddedText, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Pre-split oversized inputs, remembering which original index each
	// flattened part belongs to.
	flat := make([]string, 0, len(texts))
	owner := make([]int, 0, len(texts))
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("input %d: %w", i, ErrEmptyText)
		}
		parts := chunker.SplitOversized(text, c.maxTokens)
		if len(parts) == 0 {
			return nil, fmt.Errorf("input %d: %w", i, ErrEmptyText)
		}
		for _, p := range parts {
			flat = append(flat, p)
			owner = append(owner, i)
		}
	}

	vectors, err := c.embedAll(ctx, flat)
	if err != nil {
		return nil, err
	}

	out := make([][]domain.EmbeddedText, len(texts))
	for j, vec := range vectors {
		i := owner[j]
		out[i] = append(out[i], domain.EmbeddedText{Text: flat[j], Embedding: vec})
	}
	return out, nil
}

// embedAll issues provider calls in batchSize groups and validates
// dimensionality of every returned vector.
func (c *Client) embedAll(ctx context.Context, inputs []string) ([][]float32, error) {
	expected := c.Dimensions()

	out := make([][]float32, 0, len(inputs))
	for start := 0; start < len(inputs); start += c.batchSize {
		end := start + c.batchSize
		if end > len(inputs) {
			end = len(inputs)
		}

		vectors, err := c.api.CreateEmbeddings(ctx, inputs[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to create embeddings: %w", err)
		}

		for _, v := range vectors {
			if len(v) != expected {
				return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongDimensions, expected, len(v))
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func meanVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		for i := range v {
			mean[i] += v[i]
		}
	}
	n := float32(len(vectors))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}
