package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/veritaslabs/veritas/internal/api"
	"github.com/veritaslabs/veritas/internal/domain"
)

type MediaFinder interface {
	Find(ctx context.Context, heading, content, topic string, kind domain.SearchKind) []domain.SearchResult
}

type MediaHandler struct {
	finder MediaFinder
}

func NewMediaHandler(finder MediaFinder) *MediaHandler {
	return &MediaHandler{finder: finder}
}

type MediaSearchRequest struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
	Topic   string `json:"topic"`
	Kind    string `json:"kind"`
}

type MediaResultResponse struct {
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
	Attribution  string  `json:"attribution,omitempty"`
	Provider     string  `json:"provider"`
	Score        float64 `json:"score"`
}

type MediaSearchResponse struct {
	Results []MediaResultResponse `json:"results"`
}

func (h *MediaHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req MediaSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Heading == "" && req.Topic == "" {
		api.Error(w, http.StatusBadRequest, "heading or topic is required")
		return
	}

	kind := domain.SearchKind(req.Kind)
	if req.Kind == "" {
		kind = domain.SearchKindImage
	}
	if !domain.IsValidSearchKind(kind) {
		api.Error(w, http.StatusBadRequest, "unrecognized search kind")
		return
	}

	results := h.finder.Find(r.Context(), req.Heading, req.Content, req.Topic, kind)

	// An empty result set is a normal outcome: no media beats wrong media.
	items := make([]MediaResultResponse, len(results))
	for i, result := range results {
		items[i] = MediaResultResponse{
			Title:        result.Title,
			URL:          result.URL,
			ThumbnailURL: result.ThumbnailURL,
			Attribution:  result.Attribution,
			Provider:     result.Provider,
			Score:        result.Score,
		}
	}

	api.Success(w, http.StatusOK, MediaSearchResponse{Results: items})
}
