package domain

import "time"

// SnapshotOrigin records how a snapshot came to exist.
type SnapshotOrigin string

const (
	// OriginManual marks snapshots requested explicitly by a caller.
	OriginManual SnapshotOrigin = "manual"
	// OriginAutomatic marks snapshots captured before a mutating action.
	OriginAutomatic SnapshotOrigin = "automatic"
)

// Valid reports whether the origin is one of the known values.
func (o SnapshotOrigin) Valid() bool {
	return o == OriginManual || o == OriginAutomatic
}

// SnapshotMetadata describes a snapshot without its captured scope data.
// Only Pinned and Note may change after the snapshot is written.
type SnapshotMetadata struct {
	ID         string         `json:"id" db:"id"`
	NodeID     string         `json:"nodeId" db:"node_id"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
	ScopeCount int            `json:"scopeCount" db:"scope_count"`
	Origin     SnapshotOrigin `json:"origin" db:"origin"`
	Pinned     bool           `json:"pinned" db:"pinned"`
	Note       string         `json:"note,omitempty" db:"note"`
}

// Snapshot is an immutable point-in-time capture of a node's full scope set,
// including each scope's enabled state.
type Snapshot struct {
	SnapshotMetadata
	Scopes []ScopeEntry `json:"scopes"`
}

// RestoreOptions controls snapshot restoration.
type RestoreOptions struct {
	// KeepExtras preserves live scopes whose names are absent from the
	// snapshot. When false they are deleted after the snapshot entries
	// have been applied.
	KeepExtras bool `json:"keepExtras"`
}

// RestoreResult reports the outcome of a snapshot restore. Restoration is not
// atomic across scopes; failed entries are listed without aborting the rest.
type RestoreResult struct {
	Restored int            `json:"restored"`
	Deleted  int            `json:"deleted"`
	Failures []ScopeFailure `json:"failures,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// ScopeFailure records a single scope-level failure inside a batch operation.
type ScopeFailure struct {
	ScopeName string `json:"scopeName"`
	Error     string `json:"error"`
}
