package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/nodeapi"
	"github.com/bcnelson/dhcp-fleet-manager/internal/validation"
)

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &domain.APIError{
		Code:    status,
		Message: message,
	})
}

// handleError converts domain errors to HTTP errors. Validation errors keep
// their per-field detail; remote errors keep the node and operation context
// so the caller sees exactly what failed.
func handleError(w http.ResponseWriter, err error) {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
		return
	}
	// Sentinel checks come first: a remote 404/409 arrives wrapped in a
	// RemoteError and must map to its own status, not to 502.
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrNodeNotFound):
		respondError(w, http.StatusNotFound, "node not found")
	case errors.Is(err, domain.ErrScopeExists), errors.Is(err, domain.ErrSnapshotExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoScopes):
		respondError(w, http.StatusConflict, "node has no scopes to snapshot")
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	default:
		var remote *nodeapi.RemoteError
		if errors.As(err, &remote) {
			respondError(w, http.StatusBadGateway, remote.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes JSON from request body.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}
