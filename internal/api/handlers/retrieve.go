package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/veritaslabs/veritas/internal/api"
	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/retrieval"
	"github.com/veritaslabs/veritas/internal/vectorstore"
)

type Retriever interface {
	Retrieve(ctx context.Context, query string, store vectorstore.Store, topK int, useRerank bool) []domain.RetrievalResult
}

type RetrieveHandler struct {
	retriever Retriever
	store     vectorstore.Store
}

func NewRetrieveHandler(retriever Retriever, store vectorstore.Store) *RetrieveHandler {
	return &RetrieveHandler{retriever: retriever, store: store}
}

type RetrieveRequest struct {
	Query         string `json:"query"`
	TopK          int    `json:"top_k"`
	UseRerank     bool   `json:"use_rerank"`
	ContextBudget int    `json:"context_budget"`
}

type RetrievalResultResponse struct {
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
	SourceID   string  `json:"source_id"`
	ChunkIndex int     `json:"chunk_index"`
	Reranked   bool    `json:"reranked"`
}

type RetrieveResponse struct {
	Results []RetrievalResultResponse `json:"results"`
	Context string                    `json:"context"`
}

func (h *RetrieveHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.TopK < 0 {
		api.Error(w, http.StatusBadRequest, "top_k must be positive")
		return
	}

	results := h.retriever.Retrieve(r.Context(), req.Query, h.store, req.TopK, req.UseRerank)

	items := make([]RetrievalResultResponse, len(results))
	for i, result := range results {
		items[i] = RetrievalResultResponse{
			Text:       result.Text,
			Score:      result.Score,
			SourceID:   result.SourceID,
			ChunkIndex: result.ChunkIndex,
			Reranked:   result.Reranked,
		}
	}

	api.Success(w, http.StatusOK, RetrieveResponse{
		Results: items,
		Context: retrieval.FormatContext(results, req.ContextBudget),
	})
}
