package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	platformmetrics "caguard/internal/platform/metrics"
	"caguard/pkg/platform/middleware/metadata"
	"caguard/pkg/platform/middleware/requesttime"
)

// NewRouter assembles the HTTP surface. metricsHandler may be nil to leave
// /metrics unmounted.
func NewRouter(h *Handler, m *platformmetrics.Metrics, metricsHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(metadata.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/healthz", HandleHealth)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(requesttime.Middleware)
		h.Register(v1)
	})
	return r
}
