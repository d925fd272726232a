package sql

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL
	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return true
	}
	return false
}

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// New creates a new SQL store.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Run migrations
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// snapshotRow is the database representation of a snapshot. The captured
// scope entries travel as a single JSON document; nothing queries inside
// them, and storing them opaquely keeps the record immutable by construction.
type snapshotRow struct {
	ID         string    `db:"id"`
	NodeID     string    `db:"node_id"`
	CreatedAt  time.Time `db:"created_at"`
	ScopeCount int       `db:"scope_count"`
	Origin     string    `db:"origin"`
	Pinned     bool      `db:"pinned"`
	Note       string    `db:"note"`
	Scopes     []byte    `db:"scopes"`
}

func (r *snapshotRow) metadata() *domain.SnapshotMetadata {
	return &domain.SnapshotMetadata{
		ID:         r.ID,
		NodeID:     r.NodeID,
		CreatedAt:  r.CreatedAt,
		ScopeCount: r.ScopeCount,
		Origin:     domain.SnapshotOrigin(r.Origin),
		Pinned:     r.Pinned,
		Note:       r.Note,
	}
}

// CreateSnapshot persists a new snapshot including its scope entries.
func (s *Store) CreateSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	scopes, err := json.Marshal(snapshot.Scopes)
	if err != nil {
		return fmt.Errorf("encoding snapshot scopes: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, node_id, created_at, scope_count, origin, pinned, note, scopes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		snapshot.ID, snapshot.NodeID, snapshot.CreatedAt, snapshot.ScopeCount,
		string(snapshot.Origin), snapshot.Pinned, snapshot.Note, scopes)
	if isUniqueViolation(err) {
		return domain.ErrSnapshotExists
	}
	return err
}

// GetSnapshot returns a snapshot with its captured scope data.
func (s *Store) GetSnapshot(ctx context.Context, nodeID, id string) (*domain.Snapshot, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, node_id, created_at, scope_count, origin, pinned, note, scopes
		 FROM snapshots WHERE node_id = $1 AND id = $2`, nodeID, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{SnapshotMetadata: *row.metadata()}
	if err := json.Unmarshal(row.Scopes, &snap.Scopes); err != nil {
		return nil, fmt.Errorf("decoding snapshot scopes: %w", err)
	}
	return snap, nil
}

// GetSnapshotMetadata returns metadata only.
func (s *Store) GetSnapshotMetadata(ctx context.Context, nodeID, id string) (*domain.SnapshotMetadata, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, node_id, created_at, scope_count, origin, pinned, note
		 FROM snapshots WHERE node_id = $1 AND id = $2`, nodeID, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.metadata(), nil
}

// ListSnapshots lists a node's snapshot metadata, newest first.
func (s *Store) ListSnapshots(ctx context.Context, nodeID string) ([]*domain.SnapshotMetadata, error) {
	var rows []snapshotRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, node_id, created_at, scope_count, origin, pinned, note
		 FROM snapshots WHERE node_id = $1 ORDER BY created_at DESC, id`, nodeID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.SnapshotMetadata, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].metadata())
	}
	return out, nil
}

// SetSnapshotPinned updates the pinned flag.
func (s *Store) SetSnapshotPinned(ctx context.Context, nodeID, id string, pinned bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE snapshots SET pinned = $1 WHERE node_id = $2 AND id = $3`, pinned, nodeID, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateSnapshotNote replaces the note.
func (s *Store) UpdateSnapshotNote(ctx context.Context, nodeID, id, note string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE snapshots SET note = $1 WHERE node_id = $2 AND id = $3`, note, nodeID, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteSnapshot removes a snapshot regardless of pin state.
func (s *Store) DeleteSnapshot(ctx context.Context, nodeID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE node_id = $1 AND id = $2`, nodeID, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
