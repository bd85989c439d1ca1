// Package routes registers all HTTP routes for the API.
package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	infrahttp "github.com/scandelta/api/internal/infra/http"
	"github.com/scandelta/api/internal/infra/http/handler"
)

// Middleware is an alias to the http package's Middleware type.
type Middleware = infrahttp.Middleware

// Router is an alias to the http package's Router interface.
type Router = infrahttp.Router

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health  *handler.HealthHandler
	Session *handler.SessionHandler
	Export  *handler.ExportHandler
}

// Register registers all application routes. Keeping route definitions in
// the infrastructure layer keeps main small.
func Register(router Router, h Handlers) {
	registerHealthRoutes(router, h.Health)
	registerSessionRoutes(router, h.Session, h.Export)
}

// registerHealthRoutes registers health check and metrics endpoints.
func registerHealthRoutes(router Router, h *handler.HealthHandler) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
}

// registerSessionRoutes registers comparison session endpoints.
func registerSessionRoutes(router Router, h *handler.SessionHandler, e *handler.ExportHandler) {
	router.Group("/api/v1/sessions", func(r Router) {
		// Create session
		r.POST("/", h.Create)

		// Get, delete session
		r.GET("/{id}", h.Get)
		r.DELETE("/{id}", h.Delete)

		// Upload or clear a dataset slot
		r.PUT("/{id}/datasets/{slot}", h.PutDataset)
		r.DELETE("/{id}/datasets/{slot}", h.ClearSlot)

		// Derived views
		r.GET("/{id}/comparison", h.Comparison)
		r.GET("/{id}/export", e.Export)
	})
}
