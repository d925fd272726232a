package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

// Store is an in-memory implementation of the storage interface for testing.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.Snapshot // key: nodeID:snapshotID
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{snapshots: make(map[string]*domain.Snapshot)}
}

func (s *Store) Close() error { return nil }

func key(nodeID, id string) string {
	return nodeID + ":" + id
}

// cloneSnapshot deep-copies a snapshot via JSON so stored data stays
// immutable regardless of what callers do with their copies.
func cloneSnapshot(snap *domain.Snapshot) *domain.Snapshot {
	data, _ := json.Marshal(snap)
	var out domain.Snapshot
	_ = json.Unmarshal(data, &out)
	return &out
}

func (s *Store) CreateSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(snapshot.NodeID, snapshot.ID)
	if _, ok := s.snapshots[k]; ok {
		return domain.ErrSnapshotExists
	}
	s.snapshots[k] = cloneSnapshot(snapshot)
	return nil
}

func (s *Store) GetSnapshot(ctx context.Context, nodeID, id string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[key(nodeID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSnapshot(snap), nil
}

func (s *Store) GetSnapshotMetadata(ctx context.Context, nodeID, id string) (*domain.SnapshotMetadata, error) {
	snap, err := s.GetSnapshot(ctx, nodeID, id)
	if err != nil {
		return nil, err
	}
	meta := snap.SnapshotMetadata
	return &meta, nil
}

func (s *Store) ListSnapshots(ctx context.Context, nodeID string) ([]*domain.SnapshotMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.SnapshotMetadata
	for _, snap := range s.snapshots {
		if snap.NodeID != nodeID {
			continue
		}
		meta := snap.SnapshotMetadata
		out = append(out, &meta)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) SetSnapshotPinned(ctx context.Context, nodeID, id string, pinned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[key(nodeID, id)]
	if !ok {
		return domain.ErrNotFound
	}
	snap.Pinned = pinned
	return nil
}

func (s *Store) UpdateSnapshotNote(ctx context.Context, nodeID, id, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[key(nodeID, id)]
	if !ok {
		return domain.ErrNotFound
	}
	snap.Note = note
	return nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, nodeID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(nodeID, id)
	if _, ok := s.snapshots[k]; !ok {
		return domain.ErrNotFound
	}
	delete(s.snapshots, k)
	return nil
}
