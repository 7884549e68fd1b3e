package rerank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{URL: srv.URL, APIKey: "test-key"})
}

func TestClient_Rerank_Success(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "machine learning", req.Query)
		assert.Len(t, req.Documents, 3)
		assert.Equal(t, 2, req.TopN)

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"index": 2, "relevance_score": 0.91},
				{"index": 0, "relevance_score": 0.35},
			},
		})
	})

	results, err := client.Rerank(context.Background(), "machine learning", []string{"a", "b", "c"}, 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Index)
	assert.InDelta(t, 0.91, results[0].Score, 1e-9)
	assert.Equal(t, 0, results[1].Index)
}

func TestClient_Rerank_SortsDescendingAndTruncates(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"index": 0, "relevance_score": 0.2},
				{"index": 1, "relevance_score": 0.9},
				{"index": 2, "relevance_score": 0.5},
			},
		})
	})

	results, err := client.Rerank(context.Background(), "q", []string{"a", "b", "c"}, 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, 2, results[1].Index)
}

func TestClient_Rerank_ProviderError(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busy", http.StatusServiceUnavailable)
	})

	results, err := client.Rerank(context.Background(), "q", []string{"a"}, 1)

	assert.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Rerank_IndexOutOfRange(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"index": 7, "relevance_score": 0.9}},
		})
	})

	_, err := client.Rerank(context.Background(), "q", []string{"a", "b"}, 2)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestClient_Rerank_NotConfigured(t *testing.T) {
	client := NewClient(Config{})

	assert.False(t, client.IsConfigured())

	_, err := client.Rerank(context.Background(), "q", []string{"a"}, 1)
	assert.Equal(t, ErrNotConfigured, err)
}

func TestClient_Rerank_InputValidation(t *testing.T) {
	client := NewClient(Config{URL: "http://localhost:0", APIKey: "k"})

	_, err := client.Rerank(context.Background(), "", []string{"a"}, 1)
	assert.Equal(t, ErrEmptyQuery, err)

	_, err = client.Rerank(context.Background(), "q", nil, 1)
	assert.Equal(t, ErrNoDocuments, err)
}
