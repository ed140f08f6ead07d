package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"scicalc/internal/calcapi"
	"scicalc/internal/handlers"
	"scicalc/internal/observability"
)

// NewRouter wires the middleware chain, the operational endpoints and the
// calculator API. A nil gatherer serves the default Prometheus registry.
func NewRouter(calc *calcapi.Handler, gatherer prometheus.Gatherer) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler(gatherer))

	calcapi.RegisterRoutes(r, calc)

	return r
}
