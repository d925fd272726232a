package handler

import (
	"net/http"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/service"
)

// SyncHandler handles bulk-sync endpoints.
type SyncHandler struct {
	orchestrator *service.Orchestrator
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(orchestrator *service.Orchestrator) *SyncHandler {
	return &SyncHandler{orchestrator: orchestrator}
}

// Sync executes a bulk synchronization from one source node to the targets.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req domain.SyncRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orchestrator.BulkSync(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Preview returns the non-mutating action plan for a sync request.
func (h *SyncHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req domain.SyncRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := h.orchestrator.PreviewSync(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}
