package openai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbeddingAPI is a mock for the embedding provider API
type MockEmbeddingAPI struct {
	mock.Mock
}

func (m *MockEmbeddingAPI) CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func testVector(dim int, fill float32) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = fill
	}
	return v
}

func newTestClient(api EmbeddingAPI, dim int) *Client {
	return &Client{api: api, dimensions: dim, maxTokens: 1000, batchSize: DefaultBatchSize}
}

func TestClient_EmbedOne_Success(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := newTestClient(mockAPI, 4)

	ctx := context.Background()
	text := "This is a test document about Go programming."
	expected := []float32{0.1, 0.2, 0.3, 0.4}

	mockAPI.On("CreateEmbeddings", ctx, []string{text}).Return([][]float32{expected}, nil)

	embedding, err := client.EmbedOne(ctx, text)

	assert.NoError(t, err)
	assert.Equal(t, expected, embedding)
	mockAPI.AssertExpectations(t)
}

func TestClient_EmbedOne_EmptyText(t *testing.T) {
	client := NewClient("")

	embedding, err := client.EmbedOne(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, embedding)
	assert.Equal(t, ErrEmptyText, err)
}

func TestClient_EmbedOne_OversizedInputAveraged(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := &Client{api: mockAPI, dimensions: 2, maxTokens: 10, batchSize: DefaultBatchSize}

	ctx := context.Background()
	// Two sentences, each ~6 tokens, together over the 10-token ceiling.
	text := "Alpha beta gamma delta epsilon. Zeta eta theta iota kappa."

	mockAPI.On("CreateEmbeddings", ctx, mock.MatchedBy(func(inputs []string) bool {
		return len(inputs) == 2
	})).Return([][]float32{{1, 0}, {0, 1}}, nil)

	embedding, err := client.EmbedOne(ctx, text)

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, embedding)
	mockAPI.AssertExpectations(t)
}

func TestClient_EmbedOne_APIError(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := newTestClient(mockAPI, 4)

	apiErr := errors.New("API rate limit exceeded")
	mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(nil, apiErr)

	embedding, err := client.EmbedOne(context.Background(), "Test text")

	assert.Error(t, err)
	assert.Nil(t, embedding)
	assert.Contains(t, err.Error(), "failed to create embeddings")
	mockAPI.AssertExpectations(t)
}

func TestClient_EmbedOne_WrongDimensions(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := newTestClient(mockAPI, 4)

	mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).Return([][]float32{{0.1, 0.2}}, nil)

	embedding, err := client.EmbedOne(context.Background(), "Test text")

	assert.Error(t, err)
	assert.Nil(t, embedding)
	assert.ErrorIs(t, err, ErrWrongDimensions)
	mockAPI.AssertExpectations(t)
}

func TestClient_EmbedBatch_PreservesOrder(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := newTestClient(mockAPI, 2)

	ctx := context.Background()
	texts := []string{"first", "second", "third"}

	mockAPI.On("CreateEmbeddings", ctx, texts).Return([][]float32{{1, 0}, {0, 1}, {1, 1}}, nil)

	results, err := client.EmbedBatch(ctx, texts)

	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, parts := range results {
		require.Len(t, parts, 1)
		assert.Equal(t, texts[i], parts[0].Text)
	}
	assert.Equal(t, []float32{1, 0}, results[0][0].Embedding)
	assert.Equal(t, []float32{1, 1}, results[2][0].Embedding)
	mockAPI.AssertExpectations(t)
}

func TestClient_EmbedBatch_SplitsOversizedInput(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := &Client{api: mockAPI, dimensions: 2, maxTokens: 10, batchSize: DefaultBatchSize}

	ctx := context.Background()
	long := "Alpha beta gamma delta epsilon. Zeta eta theta iota kappa."
	texts := []string{"short", long}

	mockAPI.On("CreateEmbeddings", ctx, mock.MatchedBy(func(inputs []string) bool {
		return len(inputs) == 3 && inputs[0] == "short"
	})).Return([][]float32{{1, 0}, {0, 1}, {1, 1}}, nil)

	results, err := client.EmbedBatch(ctx, texts)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Len(t, results[0], 1)
	assert.Len(t, results[1], 2, "oversized input maps to multiple parts under the same index")
	mockAPI.AssertExpectations(t)
}

func TestClient_EmbedBatch_RespectsBatchSizeCap(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := &Client{api: mockAPI, dimensions: 1, maxTokens: 1000, batchSize: 2}

	texts := []string{"a1", "a2", "a3", "a4", "a5"}
	mockAPI.On("CreateEmbeddings", mock.Anything, mock.MatchedBy(func(inputs []string) bool {
		return len(inputs) <= 2
	})).Return([][]float32{{1}, {1}}, nil).Twice()
	mockAPI.On("CreateEmbeddings", mock.Anything, []string{"a5"}).Return([][]float32{{1}}, nil).Once()

	results, err := client.EmbedBatch(context.Background(), texts)

	require.NoError(t, err)
	assert.Len(t, results, 5)
	mockAPI.AssertExpectations(t)
}

func TestClient_EmbedBatch_ErrorAbortsWholeBatch(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := &Client{api: mockAPI, dimensions: 1, maxTokens: 1000, batchSize: 1}

	mockAPI.On("CreateEmbeddings", mock.Anything, []string{"ok"}).Return([][]float32{{1}}, nil)
	mockAPI.On("CreateEmbeddings", mock.Anything, []string{"bad"}).Return(nil, errors.New("boom"))

	results, err := client.EmbedBatch(context.Background(), []string{"ok", "bad"})

	assert.Error(t, err)
	assert.Nil(t, results, "no partial results on provider error")
}

func TestClient_EmbedBatch_EmptyInputRejected(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := newTestClient(mockAPI, 2)

	results, err := client.EmbedBatch(context.Background(), []string{"ok", ""})

	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "input 1"))
	assert.Nil(t, results)
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key")

	assert.NotNil(t, client)
	assert.NotNil(t, client.api)
	assert.Equal(t, DefaultEmbeddingDimensions, client.Dimensions())
}

func TestNewClientFromEnv_NoAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	client, err := NewClientFromEnv()

	assert.Nil(t, client)
	assert.Equal(t, ErrNoAPIKey, err)
}

func TestNewClientFromEnv_WithAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-api-key")

	client, err := NewClientFromEnv()

	assert.NotNil(t, client)
	assert.NoError(t, err)
}
