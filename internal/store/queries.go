package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const snapshotColumns = `id, created_at, source_path, label, record_count, snapshot_path`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snap Snapshot
	var createdAt string
	var label sql.NullString

	if err := row.Scan(
		&snap.ID,
		&createdAt,
		&snap.SourcePath,
		&label,
		&snap.RecordCount,
		&snap.SnapshotPath,
	); err != nil {
		return nil, err
	}
	snap.Label = label.String

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for snapshot %d: %w", snap.ID, err)
	}
	snap.CreatedAt = t.UTC()

	return &snap, nil
}

// Snapshot operations

// InsertSnapshot stores a snapshot row together with its records in a single
// transaction and returns the new snapshot ID. snap.ID is set on success.
func (s *Store) InsertSnapshot(snap *Snapshot, records []*SnapshotRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO snapshots (created_at, source_path, label, record_count, snapshot_path)
		VALUES (?, ?, ?, ?, ?)
	`,
		snap.CreatedAt.UTC().Format(time.RFC3339),
		snap.SourcePath,
		snap.Label,
		len(records),
		snap.SnapshotPath,
	)
	if err != nil {
		return 0, wrapErr(err, "failed to insert snapshot")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot ID: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO snapshot_records
		(snapshot_id, identifier, display_name, version, file_name, enabled, loader, extraction_mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(
			id,
			rec.Identifier,
			rec.DisplayName,
			rec.Version,
			rec.FileName,
			rec.Enabled,
			rec.Loader,
			rec.ExtractionMode,
		); err != nil {
			return 0, fmt.Errorf("failed to insert snapshot record %s: %w", rec.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	snap.ID = id
	snap.RecordCount = len(records)
	return id, nil
}

// GetSnapshot retrieves a snapshot by ID.
func (s *Store) GetSnapshot(id int64) (*Snapshot, error) {
	row := s.db.QueryRow(`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, wrapErr(err, "failed to get snapshot %d", id)
	}
	return snap, nil
}

// ListSnapshots returns snapshots ordered newest first. An empty sourcePath
// lists snapshots for every directory.
func (s *Store) ListSnapshots(sourcePath string) ([]*Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots`
	var args []any
	if sourcePath != "" {
		query += ` WHERE source_path = ?`
		args = append(args, sourcePath)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapErr(err, "failed to list snapshots")
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// LatestSnapshot returns the newest snapshot taken of sourcePath, or of any
// directory when sourcePath is empty.
func (s *Store) LatestSnapshot(sourcePath string) (*Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots`
	var args []any
	if sourcePath != "" {
		query += ` WHERE source_path = ?`
		args = append(args, sourcePath)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT 1`

	snap, err := scanSnapshot(s.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, wrapErr(err, "failed to get latest snapshot")
	}
	return snap, nil
}

// PreviousSnapshot returns the snapshot of the same directory taken
// immediately before the snapshot with the given ID.
func (s *Store) PreviousSnapshot(id int64) (*Snapshot, error) {
	current, err := s.GetSnapshot(id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		SELECT `+snapshotColumns+`
		FROM snapshots
		WHERE source_path = ?
		  AND (created_at < ? OR (created_at = ? AND id < ?))
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`,
		current.SourcePath,
		current.CreatedAt.Format(time.RFC3339),
		current.CreatedAt.Format(time.RFC3339),
		current.ID,
	)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no snapshot before %d: %w", id, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, wrapErr(err, "failed to get previous snapshot")
	}
	return snap, nil
}

// DeleteSnapshot removes a snapshot row and, through the foreign key, its
// records.
func (s *Store) DeleteSnapshot(id int64) error {
	result, err := s.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return wrapErr(err, "failed to delete snapshot %d", id)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("snapshot %d: %w", id, ErrSnapshotNotFound)
	}
	return nil
}

// GetSnapshotRecords returns all records in a snapshot ordered by identifier.
func (s *Store) GetSnapshotRecords(snapshotID int64) ([]*SnapshotRecord, error) {
	rows, err := s.db.Query(`
		SELECT snapshot_id, identifier, display_name, version, file_name, enabled, loader, extraction_mode
		FROM snapshot_records
		WHERE snapshot_id = ?
		ORDER BY identifier
	`, snapshotID)
	if err != nil {
		return nil, wrapErr(err, "failed to get snapshot records")
	}
	defer rows.Close()

	var records []*SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		var displayName, version, loader, mode sql.NullString

		if err := rows.Scan(
			&rec.SnapshotID,
			&rec.Identifier,
			&displayName,
			&version,
			&rec.FileName,
			&rec.Enabled,
			&loader,
			&mode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot record row: %w", err)
		}
		rec.DisplayName = displayName.String
		rec.Version = version.String
		rec.Loader = loader.String
		rec.ExtractionMode = mode.String

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot records: %w", err)
	}

	return records, nil
}

// CountSnapshots returns the number of indexed snapshots.
func (s *Store) CountSnapshots() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		return 0, wrapErr(err, "failed to count snapshots")
	}
	return count, nil
}

// ListSources returns every directory that has at least one snapshot, with
// the time of its most recent snapshot.
func (s *Store) ListSources() (map[string]time.Time, error) {
	rows, err := s.db.Query(`SELECT source_path, MAX(created_at) FROM snapshots GROUP BY source_path`)
	if err != nil {
		return nil, wrapErr(err, "failed to list sources")
	}
	defer rows.Close()

	sources := make(map[string]time.Time)
	for rows.Next() {
		var path, latest string
		if err := rows.Scan(&path, &latest); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, latest)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for %s: %w", path, err)
		}
		sources[path] = t.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sources: %w", err)
	}
	return sources, nil
}
