package snapshots

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/blackwell-systems/modsnap/internal/metadata"
	"github.com/blackwell-systems/modsnap/internal/store"
)

// Snapshot references accepted by Resolve besides IDs and file paths.
const (
	RefLatest   = "latest"
	RefPrevious = "previous"
)

// ErrUnknownRef is returned when a reference is neither a snapshot ID, a
// keyword, nor an existing file.
var ErrUnknownRef = errors.New("unknown snapshot reference")

// LoadByID rebuilds an indexed snapshot from its stored records. The JSON
// file is not consulted, so snapshots whose file has since been overwritten
// can still be loaded.
func (m *Manager) LoadByID(id int64) (*Snapshot, error) {
	row, err := m.store.GetSnapshot(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	records, err := m.store.GetSnapshotRecords(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot records: %w", err)
	}

	return fromRows(row, records), nil
}

// Resolve turns a reference into a snapshot. ref may be a numeric snapshot
// ID, "latest" or "previous" (relative to sourcePath, or to every directory
// when sourcePath is empty), or the path of a snapshot file.
func (m *Manager) Resolve(ref, sourcePath string) (*Snapshot, error) {
	switch ref {
	case RefLatest:
		row, err := m.store.LatestSnapshot(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", ref, err)
		}
		return m.LoadByID(row.ID)

	case RefPrevious:
		latest, err := m.store.LatestSnapshot(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", ref, err)
		}
		row, err := m.store.PreviousSnapshot(latest.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", ref, err)
		}
		return m.LoadByID(row.ID)
	}

	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return Load(ref)
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return m.LoadByID(id)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownRef, ref)
}

func fromRows(row *store.Snapshot, records []*store.SnapshotRecord) *Snapshot {
	snap := NewSnapshot(row.SourcePath, row.CreatedAt)
	for _, rec := range records {
		snap.Records[rec.Identifier] = &PackageRecord{
			Identifier:     rec.Identifier,
			DisplayName:    rec.DisplayName,
			Version:        rec.Version,
			FileName:       rec.FileName,
			Enabled:        rec.Enabled,
			Loader:         rec.Loader,
			ExtractionMode: metadata.Mode(rec.ExtractionMode),
		}
	}
	return snap
}
