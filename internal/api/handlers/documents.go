package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veritaslabs/veritas/internal/api"
	"github.com/veritaslabs/veritas/internal/ingest"
	"github.com/veritaslabs/veritas/internal/vectorstore"
)

type IngestService interface {
	Ingest(ctx context.Context, sourceID, text string) (ingest.Result, error)
	DeleteSource(ctx context.Context, sourceID string) (int, error)
	ListSources(ctx context.Context) ([]vectorstore.SourceCount, error)
}

type DocumentsHandler struct {
	svc IngestService
}

func NewDocumentsHandler(svc IngestService) *DocumentsHandler {
	return &DocumentsHandler{svc: svc}
}

type IngestRequest struct {
	SourceID string `json:"source_id"`
	Text     string `json:"text"`
}

type IngestResponse struct {
	SourceID string `json:"source_id"`
	Chunks   int    `json:"chunks"`
}

func (h *DocumentsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.svc.Ingest(r.Context(), req.SourceID, req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, IngestResponse{
		SourceID: result.SourceID,
		Chunks:   result.Chunks,
	})
}

type DeleteSourceResponse struct {
	SourceID string `json:"source_id"`
	Removed  int    `json:"removed"`
}

func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "sourceID")
	if sourceID == "" {
		api.Error(w, http.StatusBadRequest, "sourceID is required")
		return
	}

	removed, err := h.svc.DeleteSource(r.Context(), sourceID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DeleteSourceResponse{SourceID: sourceID, Removed: removed})
}

type SourceResponse struct {
	SourceID string `json:"source_id"`
	Chunks   int    `json:"chunks"`
}

type SourceListResponse struct {
	Items []SourceResponse `json:"items"`
}

func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	sources, err := h.svc.ListSources(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]SourceResponse, len(sources))
	for i, s := range sources {
		items[i] = SourceResponse{SourceID: s.SourceID, Chunks: s.Chunks}
	}

	api.Success(w, http.StatusOK, SourceListResponse{Items: items})
}
