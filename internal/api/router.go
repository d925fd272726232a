package api

import (
	"net/http"

	"github.com/bcnelson/dhcp-fleet-manager/internal/api/handler"
	"github.com/bcnelson/dhcp-fleet-manager/internal/api/middleware"
	"github.com/bcnelson/dhcp-fleet-manager/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(orchestrator *service.Orchestrator, apiToken string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes (auth required, JSON Content-Type)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)
		r.Use(middleware.Auth(apiToken))

		scopeHandler := handler.NewScopeHandler(orchestrator)
		r.Get("/nodes", scopeHandler.ListNodes)

		r.Route("/nodes/{node_id}", func(r chi.Router) {
			r.Get("/scopes", scopeHandler.List)
			r.Get("/scopes/{name}", scopeHandler.Get)
			r.Put("/scopes/{name}", scopeHandler.Update)
			r.Delete("/scopes/{name}", scopeHandler.Delete)
			r.Post("/scopes/{name}/clone", scopeHandler.Clone)
			r.Post("/scopes/{name}/rename", scopeHandler.Rename)

			snapshotHandler := handler.NewSnapshotHandler(orchestrator)
			r.Get("/snapshots", snapshotHandler.List)
			r.Post("/snapshots", snapshotHandler.Create)
			r.Get("/snapshots/{id}", snapshotHandler.Get)
			r.Put("/snapshots/{id}/pin", snapshotHandler.SetPinned)
			r.Put("/snapshots/{id}/note", snapshotHandler.UpdateNote)
			r.Delete("/snapshots/{id}", snapshotHandler.Delete)
			r.Post("/snapshots/{id}/restore", snapshotHandler.Restore)
		})

		syncHandler := handler.NewSyncHandler(orchestrator)
		r.Post("/sync", syncHandler.Sync)
		r.Post("/sync/preview", syncHandler.Preview)
	})

	return r
}
