package storage

import (
	"context"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

// Storage persists snapshots. Snapshots are immutable once written; only the
// pinned flag and the note on the metadata may change afterwards, and those
// mutations are per-record with last-write-wins semantics.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// CreateSnapshot persists a new snapshot including its scope entries.
	CreateSnapshot(ctx context.Context, snapshot *domain.Snapshot) error
	// GetSnapshot returns a snapshot with its captured scope data.
	GetSnapshot(ctx context.Context, nodeID, id string) (*domain.Snapshot, error)
	// GetSnapshotMetadata returns metadata only.
	GetSnapshotMetadata(ctx context.Context, nodeID, id string) (*domain.SnapshotMetadata, error)
	// ListSnapshots lists a node's snapshot metadata, newest first.
	ListSnapshots(ctx context.Context, nodeID string) ([]*domain.SnapshotMetadata, error)
	// SetSnapshotPinned updates the pinned flag.
	SetSnapshotPinned(ctx context.Context, nodeID, id string, pinned bool) error
	// UpdateSnapshotNote replaces the note.
	UpdateSnapshotNote(ctx context.Context, nodeID, id, note string) error
	// DeleteSnapshot removes a snapshot. Pinned status does not block
	// this explicit operation; only retention sweeps must honor pin.
	DeleteSnapshot(ctx context.Context, nodeID, id string) error
}
