package snapshots

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/modsnap/internal/store"
)

// Dir returns the directory snapshot files for sourcePath are written to:
// the configured snapshot directory, or the parent of the mods directory.
func (m *Manager) Dir(sourcePath string) string {
	if m.snapshotDir != "" {
		return m.snapshotDir
	}
	return filepath.Dir(filepath.Clean(sourcePath))
}

// Path returns the snapshot file path for sourcePath and prefix.
func (m *Manager) Path(sourcePath, prefix string) string {
	return filepath.Join(m.Dir(sourcePath), SnapshotFileName(prefix))
}

// Create writes snap to "<prefix>.mods_snapshot.json" and indexes it and its
// records in the store. The file only replaces an existing snapshot file
// once the index insert has succeeded; on any failure the previous file is
// left as it was.
func (m *Manager) Create(snap *Snapshot, prefix, label string) (*store.Snapshot, error) {
	path := m.Path(snap.SourcePath, prefix)

	tmpPath, err := writeTemp(path, snap)
	if err != nil {
		return nil, err
	}

	row := &store.Snapshot{
		CreatedAt:    snap.Timestamp,
		SourcePath:   snap.SourcePath,
		Label:        label,
		SnapshotPath: path,
	}
	if _, err := m.store.InsertSnapshot(row, toRows(snap)); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to insert snapshot into database: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		if derr := m.store.DeleteSnapshot(row.ID); derr != nil {
			return nil, fmt.Errorf("failed to move snapshot file into place: %w (index row %d kept: %v)", err, row.ID, derr)
		}
		return nil, fmt.Errorf("failed to move snapshot file into place: %w", err)
	}

	return row, nil
}

// ListSnapshots returns indexed snapshots, newest first. An empty sourcePath
// lists every directory.
func (m *Manager) ListSnapshots(sourcePath string) ([]*store.Snapshot, error) {
	snapshots, err := m.store.ListSnapshots(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// CleanupOldSnapshots deletes index rows older than maxAge. A snapshot file
// is removed only once no remaining row points at it. It returns the number
// of rows deleted.
func (m *Manager) CleanupOldSnapshots(maxAge time.Duration) (int, error) {
	snapshots, err := m.store.ListSnapshots("")
	if err != nil {
		return 0, fmt.Errorf("failed to list snapshots: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	inUse := make(map[string]bool)
	var stale []*store.Snapshot

	for _, snap := range snapshots {
		if snap.CreatedAt.Before(cutoff) {
			stale = append(stale, snap)
		} else {
			inUse[snap.SnapshotPath] = true
		}
	}

	deleted := 0
	for _, snap := range stale {
		if err := m.store.DeleteSnapshot(snap.ID); err != nil {
			return deleted, fmt.Errorf("failed to delete snapshot %d: %w", snap.ID, err)
		}
		deleted++

		if inUse[snap.SnapshotPath] {
			continue
		}
		if err := os.Remove(snap.SnapshotPath); err != nil && !os.IsNotExist(err) {
			return deleted, fmt.Errorf("failed to delete snapshot file %s: %w", snap.SnapshotPath, err)
		}
		inUse[snap.SnapshotPath] = true
	}

	return deleted, nil
}

func toRows(snap *Snapshot) []*store.SnapshotRecord {
	rows := make([]*store.SnapshotRecord, 0, len(snap.Records))
	for _, r := range snap.Records {
		rows = append(rows, &store.SnapshotRecord{
			Identifier:     r.Identifier,
			DisplayName:    r.DisplayName,
			Version:        r.Version,
			FileName:       r.FileName,
			Enabled:        r.Enabled,
			Loader:         r.Loader,
			ExtractionMode: string(r.ExtractionMode),
		})
	}
	return rows
}
