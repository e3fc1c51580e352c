// Package router sets up the HTTP routes and middleware chain for the
// site API server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"notionsite/internal/handlers"
	"notionsite/internal/middleware"
)

// New creates and returns the configured Chi router.
func New(siteHandlers *handlers.Site, metricsHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check and operational endpoints.
	r.Get("/health", healthHandler)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Site API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/site", siteHandlers.Data)
		r.Get("/nav-pages", siteHandlers.NavPages)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
