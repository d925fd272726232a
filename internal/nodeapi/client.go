// Package nodeapi talks to the per-node DHCP management API. The engine only
// consumes this surface; the node product itself is external.
package nodeapi

import (
	"context"
	"fmt"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

// Client is the remote scope-management surface of a single node. Calls go
// over a network boundary and may fail independently; none of them are
// retried automatically.
type Client interface {
	ListScopes(ctx context.Context) ([]domain.ScopeSummary, error)
	GetScope(ctx context.Context, scopeName string) (*domain.Scope, error)
	CreateScope(ctx context.Context, scope domain.Scope, enabled bool) error
	// UpdateScope fully replaces the named scope's fields. A nil enabled
	// leaves the current enabled state alone.
	UpdateScope(ctx context.Context, scopeName string, scope domain.Scope, enabled *bool) error
	DeleteScope(ctx context.Context, scopeName string) error
	RenameScope(ctx context.Context, scopeName, newName string) error
}

// RemoteError wraps a failed node API call with enough context to surface it
// to the end user.
type RemoteError struct {
	NodeID string
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("node %s: %s: %v", e.NodeID, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *RemoteError) Unwrap() error {
	return e.Err
}
