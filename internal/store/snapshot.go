package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/farmfork/agrisync/internal/ledger"
)

// Initialize writes an empty snapshot under the well-known key if none
// exists. A second call on an existing store is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	empty := ledger.NewSnapshot(time.Now().UTC())
	data, err := json.Marshal(empty)
	if err != nil {
		return fmt.Errorf("initialize snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, SnapshotKey, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("initialize snapshot: %w", err)
	}

	return nil
}

// Load deserializes the snapshot. An absent row or an unparseable
// document returns (nil, nil): missing or corrupt data is "no data",
// not a fatal error. Database-level failures still propagate.
func (s *Store) Load(ctx context.Context) (*ledger.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots WHERE key = ?
	`, SnapshotKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		s.log.Warn("snapshot is unparseable, treating as no data",
			zap.String("key", SnapshotKey),
			zap.Error(err))
		return nil, nil
	}

	snap.Normalize()
	return &snap, nil
}

// Save serializes and persists the full snapshot, replacing whatever
// was stored before. The document is written in one statement, so a
// reader never observes a half-written snapshot.
func (s *Store) Save(ctx context.Context, snap *ledger.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, SnapshotKey, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// Reset replaces the stored document with a fresh empty snapshot,
// audit history included. Backs the clear-all operation.
func (s *Store) Reset(ctx context.Context) error {
	empty := ledger.NewSnapshot(time.Now().UTC())
	if err := s.Save(ctx, empty); err != nil {
		return fmt.Errorf("reset snapshot: %w", err)
	}
	return nil
}
