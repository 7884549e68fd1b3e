package handlers

import (
	"net/http"

	"github.com/veritaslabs/veritas/internal/api"
	"github.com/veritaslabs/veritas/internal/ratelimit"
)

type LimitsReader interface {
	Counts() ratelimit.WindowCounts
}

type LimitsHandler struct {
	limiter LimitsReader
}

func NewLimitsHandler(limiter LimitsReader) *LimitsHandler {
	return &LimitsHandler{limiter: limiter}
}

type LimitsResponse struct {
	LastMinute int `json:"last_minute"`
	LastHour   int `json:"last_hour"`
	LastDay    int `json:"last_day"`
	PerMinute  int `json:"per_minute"`
	PerHour    int `json:"per_hour"`
	PerDay     int `json:"per_day"`
}

// Limits reports current search quota consumption per trailing window
// alongside the configured ceilings. Zero ceilings mean unlimited.
func (h *LimitsHandler) Limits(w http.ResponseWriter, r *http.Request) {
	counts := h.limiter.Counts()

	api.Success(w, http.StatusOK, LimitsResponse{
		LastMinute: counts.LastMinute,
		LastHour:   counts.LastHour,
		LastDay:    counts.LastDay,
		PerMinute:  counts.Limits.PerMinute,
		PerHour:    counts.Limits.PerHour,
		PerDay:     counts.Limits.PerDay,
	})
}
