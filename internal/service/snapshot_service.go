package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/nodeapi"
	"github.com/bcnelson/dhcp-fleet-manager/internal/storage"
	"github.com/google/uuid"
)

// SnapshotService captures, restores, and manages point-in-time snapshots of
// a node's full scope set.
type SnapshotService struct {
	store    storage.Storage
	registry *nodeapi.Registry
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(store storage.Storage, registry *nodeapi.Registry) *SnapshotService {
	return &SnapshotService{store: store, registry: registry}
}

// List returns a node's snapshot metadata, newest first.
func (s *SnapshotService) List(ctx context.Context, nodeID string) ([]*domain.SnapshotMetadata, error) {
	if _, err := s.registry.Client(nodeID); err != nil {
		return nil, err
	}
	return s.store.ListSnapshots(ctx, nodeID)
}

// Create captures the node's full live scope set, including each scope's
// enabled state, and persists it as an immutable snapshot. A node with zero
// live scopes yields domain.ErrNoScopes.
func (s *SnapshotService) Create(ctx context.Context, nodeID string, origin domain.SnapshotOrigin) (*domain.SnapshotMetadata, error) {
	if !origin.Valid() {
		return nil, fmt.Errorf("%w: unknown snapshot origin %q", domain.ErrInvalidInput, origin)
	}
	client, err := s.registry.Client(nodeID)
	if err != nil {
		return nil, err
	}

	summaries, err := client.ListScopes(ctx)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, domain.ErrNoScopes
	}

	entries := make([]domain.ScopeEntry, 0, len(summaries))
	for _, summary := range summaries {
		scope, err := client.GetScope(ctx, summary.Name)
		if err != nil {
			return nil, fmt.Errorf("fetching scope %q: %w", summary.Name, err)
		}
		entries = append(entries, domain.ScopeEntry{Scope: *scope, Enabled: summary.Enabled})
	}

	snapshot := &domain.Snapshot{
		SnapshotMetadata: domain.SnapshotMetadata{
			ID:         uuid.New().String(),
			NodeID:     nodeID,
			CreatedAt:  time.Now().UTC(),
			ScopeCount: len(entries),
			Origin:     origin,
		},
		Scopes: entries,
	}

	if err := s.store.CreateSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	meta := snapshot.SnapshotMetadata
	return &meta, nil
}

// Detail returns a snapshot with its captured scope data.
func (s *SnapshotService) Detail(ctx context.Context, nodeID, id string) (*domain.Snapshot, error) {
	return s.store.GetSnapshot(ctx, nodeID, id)
}

// SetPinned updates the pinned flag. Pinned snapshots are exempt from
// retention sweeps; the captured scope data is untouched.
func (s *SnapshotService) SetPinned(ctx context.Context, nodeID, id string, pinned bool) (*domain.SnapshotMetadata, error) {
	if err := s.store.SetSnapshotPinned(ctx, nodeID, id, pinned); err != nil {
		return nil, err
	}
	return s.store.GetSnapshotMetadata(ctx, nodeID, id)
}

// UpdateNote replaces the note annotation.
func (s *SnapshotService) UpdateNote(ctx context.Context, nodeID, id, note string) (*domain.SnapshotMetadata, error) {
	if err := s.store.UpdateSnapshotNote(ctx, nodeID, id, note); err != nil {
		return nil, err
	}
	return s.store.GetSnapshotMetadata(ctx, nodeID, id)
}

// Delete removes a snapshot. Pin does not block an explicit delete.
func (s *SnapshotService) Delete(ctx context.Context, nodeID, id string) error {
	return s.store.DeleteSnapshot(ctx, nodeID, id)
}

// Restore re-applies a snapshot to its node: every captured scope is
// upserted and its enabled flag set; with KeepExtras false, live scopes
// absent from the snapshot are then deleted. Scope applies are attempted
// independently, so a failure on one does not stop the rest; failures are
// surfaced in the result.
func (s *SnapshotService) Restore(ctx context.Context, nodeID, id string, opts domain.RestoreOptions) (*domain.RestoreResult, error) {
	snapshot, err := s.store.GetSnapshot(ctx, nodeID, id)
	if err != nil {
		return nil, err
	}
	client, err := s.registry.Client(nodeID)
	if err != nil {
		return nil, err
	}

	summaries, err := client.ListScopes(ctx)
	if err != nil {
		return nil, err
	}
	live := make(map[string]bool, len(summaries))
	for _, summary := range summaries {
		live[domain.ScopeKey(summary.Name)] = true
	}

	result := &domain.RestoreResult{}
	inSnapshot := make(map[string]bool, len(snapshot.Scopes))
	for _, entry := range snapshot.Scopes {
		key := domain.ScopeKey(entry.Scope.Name)
		inSnapshot[key] = true

		var applyErr error
		if live[key] {
			enabled := entry.Enabled
			applyErr = client.UpdateScope(ctx, entry.Scope.Name, entry.Scope, &enabled)
		} else {
			applyErr = client.CreateScope(ctx, entry.Scope, entry.Enabled)
		}
		if applyErr != nil {
			result.Failures = append(result.Failures, domain.ScopeFailure{
				ScopeName: entry.Scope.Name,
				Error:     applyErr.Error(),
			})
			continue
		}
		result.Restored++
	}

	if !opts.KeepExtras {
		for _, summary := range summaries {
			if inSnapshot[domain.ScopeKey(summary.Name)] {
				continue
			}
			if err := client.DeleteScope(ctx, summary.Name); err != nil {
				result.Failures = append(result.Failures, domain.ScopeFailure{
					ScopeName: summary.Name,
					Error:     err.Error(),
				})
				continue
			}
			result.Deleted++
		}
	}

	return result, nil
}
