package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veritaslabs/veritas/internal/api"
	"github.com/veritaslabs/veritas/internal/api/handlers"
	"github.com/veritaslabs/veritas/internal/api/middleware"
)

type RouterConfig struct {
	APIToken         string
	DocumentsHandler *handlers.DocumentsHandler
	RetrieveHandler  *handlers.RetrieveHandler
	MediaHandler     *handlers.MediaHandler
	ValidateHandler  *handlers.ValidateHandler
	LimitsHandler    *handlers.LimitsHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(cfg.APIToken))

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", cfg.DocumentsHandler.Ingest)
			r.Get("/", cfg.DocumentsHandler.List)
			r.Delete("/{sourceID}", cfg.DocumentsHandler.Delete)
		})

		r.Post("/retrieve", cfg.RetrieveHandler.Retrieve)
		r.Post("/media/search", cfg.MediaHandler.Search)
		r.Post("/validate", cfg.ValidateHandler.Validate)
		r.Get("/limits", cfg.LimitsHandler.Limits)
	})

	return r
}
