package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/farmfork/agrisync/internal/ledger"
	"github.com/farmfork/agrisync/internal/schema"
)

// exportBasename is the artifact name prefix; the current date and a
// .json suffix complete it.
const exportBasename = "agriculture-platform-data"

// ExportFileName returns the artifact name for an export performed at
// the given instant.
func ExportFileName(at time.Time) string {
	return fmt.Sprintf("%s-%s.json", exportBasename, at.Format("2006-01-02"))
}

// ExportJSON serializes the full snapshot, pretty-printed.
func (e *Engine) ExportJSON(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}
	return data, nil
}

// Export writes the snapshot artifact into dir and returns its path.
// Export reads only; it neither mutates the ledger nor logs an audit
// entry.
func (e *Engine) Export(ctx context.Context, dir string) (string, error) {
	data, err := e.ExportJSON(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ExportFileName(e.now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}

	e.log.Info("ledger exported", zap.String("path", path))
	return path, nil
}

// Import validates and parses a serialized snapshot, then replaces the
// entire stored document. Malformed input rejects the operation before
// anything is written.
//
// Import persists the document verbatim - no audit entry is appended -
// so importing an unmodified export reproduces an identical snapshot,
// audit trail included.
func (e *Engine) Import(ctx context.Context, data []byte) error {
	if err := schema.Validate(data); err != nil {
		return NewInvalidSnapshotError(err.Error())
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return NewInvalidSnapshotError(fmt.Sprintf("parse snapshot: %v", err))
	}
	snap.Normalize()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Save(ctx, &snap); err != nil {
		return err
	}

	e.log.Info("ledger imported",
		zap.Int("batches", len(snap.Farmers.Batches)),
		zap.Int("inventory", len(snap.Distributors.Inventory)),
		zap.Int("stock", len(snap.Retailers.Stock)))
	return nil
}

// ImportFile reads and imports a snapshot artifact from disk.
func (e *Engine) ImportFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	return e.Import(ctx, data)
}
