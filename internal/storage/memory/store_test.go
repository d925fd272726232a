package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

func snap(nodeID, id string, createdAt time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		SnapshotMetadata: domain.SnapshotMetadata{
			ID:         id,
			NodeID:     nodeID,
			CreatedAt:  createdAt,
			ScopeCount: 1,
			Origin:     domain.OriginManual,
		},
		Scopes: []domain.ScopeEntry{{
			Scope:   domain.Scope{Name: "office", StartingAddress: "10.0.0.10"},
			Enabled: true,
		}},
	}
}

func TestCreateAndGetSnapshot(t *testing.T) {
	store := New()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.CreateSnapshot(ctx, snap("node-1", "snap-1", now)))

	got, err := store.GetSnapshot(ctx, "node-1", "snap-1")
	require.NoError(t, err)
	assert.Equal(t, "snap-1", got.ID)
	require.Len(t, got.Scopes, 1)
	assert.Equal(t, "office", got.Scopes[0].Scope.Name)

	// Snapshot ids are scoped to the node.
	_, err = store.GetSnapshot(ctx, "node-2", "snap-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSnapshotDuplicate(t *testing.T) {
	store := New()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.CreateSnapshot(ctx, snap("node-1", "snap-1", now)))
	err := store.CreateSnapshot(ctx, snap("node-1", "snap-1", now))
	assert.ErrorIs(t, err, domain.ErrSnapshotExists)
}

func TestGetSnapshotReturnsCopy(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateSnapshot(ctx, snap("node-1", "snap-1", time.Now().UTC())))

	got, err := store.GetSnapshot(ctx, "node-1", "snap-1")
	require.NoError(t, err)
	got.Scopes[0].Scope.Name = "tampered"

	again, err := store.GetSnapshot(ctx, "node-1", "snap-1")
	require.NoError(t, err)
	assert.Equal(t, "office", again.Scopes[0].Scope.Name)
}

func TestListSnapshotsNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, store.CreateSnapshot(ctx, snap("node-1", "older", base.Add(-time.Hour))))
	require.NoError(t, store.CreateSnapshot(ctx, snap("node-1", "newer", base)))
	require.NoError(t, store.CreateSnapshot(ctx, snap("node-2", "other", base)))

	metas, err := store.ListSnapshots(ctx, "node-1")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "newer", metas[0].ID)
	assert.Equal(t, "older", metas[1].ID)
}

func TestPinnedAndNote(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateSnapshot(ctx, snap("node-1", "snap-1", time.Now().UTC())))

	require.NoError(t, store.SetSnapshotPinned(ctx, "node-1", "snap-1", true))
	require.NoError(t, store.UpdateSnapshotNote(ctx, "node-1", "snap-1", "golden config"))

	meta, err := store.GetSnapshotMetadata(ctx, "node-1", "snap-1")
	require.NoError(t, err)
	assert.True(t, meta.Pinned)
	assert.Equal(t, "golden config", meta.Note)

	assert.ErrorIs(t, store.SetSnapshotPinned(ctx, "node-1", "missing", true), domain.ErrNotFound)
	assert.ErrorIs(t, store.UpdateSnapshotNote(ctx, "node-1", "missing", "x"), domain.ErrNotFound)
}

func TestDeleteSnapshot(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateSnapshot(ctx, snap("node-1", "snap-1", time.Now().UTC())))
	require.NoError(t, store.SetSnapshotPinned(ctx, "node-1", "snap-1", true))

	// Pinning protects against retention sweeps, not explicit deletes.
	require.NoError(t, store.DeleteSnapshot(ctx, "node-1", "snap-1"))
	_, err := store.GetSnapshot(ctx, "node-1", "snap-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.DeleteSnapshot(ctx, "node-1", "snap-1"), domain.ErrNotFound)
}
