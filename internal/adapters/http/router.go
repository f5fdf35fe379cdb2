// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/record-registry/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Global middleware is applied in the order given. The auth middleware wraps
// mutating routes only; record reads and health endpoints are public.
func NewRouter(
	entityHandler *handlers.RecordHandler,
	taskHandler *handlers.RecordHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware func(http.Handler) http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes. Entities and tasks expose the same surface, served by
	// two instances of the same handler.
	r.Route("/api/v1", func(r chi.Router) {
		mountRecordRoutes(r, "/entities", entityHandler, authMiddleware)
		mountRecordRoutes(r, "/tasks", taskHandler, authMiddleware)
	})

	return r
}

// mountRecordRoutes registers one record kind's routes under prefix.
func mountRecordRoutes(r chi.Router, prefix string, h *handlers.RecordHandler, auth func(http.Handler) http.Handler) {
	r.Route(prefix, func(r chi.Router) {
		// Public read.
		r.Get("/{id}", h.Get)

		// Mutations require a verified caller identity.
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/", h.Create)
			r.Patch("/{id}/status", h.UpdateStatus)
			r.Patch("/status/bulk", h.BulkUpdateStatus)
			r.Delete("/{id}", h.Delete)
		})
	})
}
