package handler

import (
	"net/http"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/service"
	"github.com/go-chi/chi/v5"
)

// SnapshotHandler handles snapshot endpoints. Read and manage operations go
// straight to the snapshot service; restore goes through the orchestrator so
// it gets the same automatic pre-mutation snapshot as every other mutation.
type SnapshotHandler struct {
	orchestrator *service.Orchestrator
	snapshots    *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(orchestrator *service.Orchestrator) *SnapshotHandler {
	return &SnapshotHandler{
		orchestrator: orchestrator,
		snapshots:    orchestrator.Snapshots(),
	}
}

// List lists a node's snapshots, newest first.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	metas, err := h.snapshots.List(r.Context(), nodeID)
	if err != nil {
		handleError(w, err)
		return
	}
	if metas == nil {
		metas = []*domain.SnapshotMetadata{}
	}
	respondJSON(w, http.StatusOK, metas)
}

// Create captures a manual snapshot of the node's live scope set.
func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	meta, err := h.snapshots.Create(r.Context(), nodeID, domain.OriginManual)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, meta)
}

// Get returns a snapshot with its captured scope data.
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	id := chi.URLParam(r, "id")
	snap, err := h.snapshots.Detail(r.Context(), nodeID, id)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// SetPinned updates the pinned flag.
func (h *SnapshotHandler) SetPinned(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	id := chi.URLParam(r, "id")

	var req struct {
		Pinned bool `json:"pinned"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	meta, err := h.snapshots.SetPinned(r.Context(), nodeID, id, req.Pinned)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, meta)
}

// UpdateNote replaces the note annotation.
func (h *SnapshotHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	id := chi.URLParam(r, "id")

	var req struct {
		Note string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	meta, err := h.snapshots.UpdateNote(r.Context(), nodeID, id, req.Note)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, meta)
}

// Delete removes a snapshot.
func (h *SnapshotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	id := chi.URLParam(r, "id")
	if err := h.snapshots.Delete(r.Context(), nodeID, id); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Restore re-applies a snapshot to its node.
func (h *SnapshotHandler) Restore(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")
	id := chi.URLParam(r, "id")

	var opts domain.RestoreOptions
	if err := decodeJSON(r, &opts); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orchestrator.RestoreSnapshot(r.Context(), nodeID, id, opts)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
