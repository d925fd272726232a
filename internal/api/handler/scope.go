package handler

import (
	"net/http"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/service"
	"github.com/go-chi/chi/v5"
)

// ScopeHandler handles per-node scope endpoints.
type ScopeHandler struct {
	orchestrator *service.Orchestrator
}

// NewScopeHandler creates a new ScopeHandler.
func NewScopeHandler(orchestrator *service.Orchestrator) *ScopeHandler {
	return &ScopeHandler{orchestrator: orchestrator}
}

// ListNodes lists the registered nodes.
func (h *ScopeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orchestrator.ListNodes())
}

// List lists a node's scopes.
func (h *ScopeHandler) List(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	scopes, err := h.orchestrator.ListScopes(r.Context(), nodeID)
	if err != nil {
		handleError(w, err)
		return
	}
	if scopes == nil {
		scopes = []domain.ScopeSummary{}
	}
	respondJSON(w, http.StatusOK, scopes)
}

// Get returns a scope's full configuration.
func (h *ScopeHandler) Get(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	name := chi.URLParam(r, "name")
	scope, err := h.orchestrator.GetScope(r.Context(), nodeID, name)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, scope)
}

// Clone copies a scope within a node or to another node.
func (h *ScopeHandler) Clone(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	name := chi.URLParam(r, "name")

	var req domain.CloneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orchestrator.CloneScope(r.Context(), nodeID, name, req)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// Rename renames a scope on one node.
func (h *ScopeHandler) Rename(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	name := chi.URLParam(r, "name")

	var req struct {
		NewName string `json:"newName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	warnings, err := h.orchestrator.RenameScope(r.Context(), nodeID, name, req.NewName)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "warnings": warnings})
}

// Update applies field overrides to a scope.
func (h *ScopeHandler) Update(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	name := chi.URLParam(r, "name")

	var req struct {
		Overrides *domain.ScopeOverrides `json:"overrides"`
		Enabled   *bool                  `json:"enabled,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	warnings, err := h.orchestrator.UpdateScope(r.Context(), nodeID, name, req.Overrides, req.Enabled)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "warnings": warnings})
}

// Delete removes a scope from one node.
func (h *ScopeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	name := chi.URLParam(r, "name")

	warnings, err := h.orchestrator.DeleteScope(r.Context(), nodeID, name)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "warnings": warnings})
}
