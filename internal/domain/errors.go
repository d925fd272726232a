package domain

import "errors"

// Common errors used throughout the application.
var (
	ErrNotFound       = errors.New("not found")
	ErrNodeNotFound   = errors.New("node not found")
	ErrScopeExists    = errors.New("scope already exists")
	ErrSnapshotExists = errors.New("snapshot already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	// ErrNoScopes is returned when a snapshot is requested for a node that
	// currently has zero live scopes. Callers snapshotting defensively
	// before a mutation treat this as a soft-skip, not a failure.
	ErrNoScopes = errors.New("node has no scopes to snapshot")
)

// APIError represents an error response from the API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}
