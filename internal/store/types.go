package store

import "time"

// Snapshot is the index row for one saved snapshot file.
type Snapshot struct {
	ID           int64
	CreatedAt    time.Time
	SourcePath   string
	Label        string
	RecordCount  int
	SnapshotPath string
}

// SnapshotRecord is one package record belonging to a snapshot.
type SnapshotRecord struct {
	SnapshotID     int64
	Identifier     string
	DisplayName    string
	Version        string
	FileName       string
	Enabled        bool
	Loader         string
	ExtractionMode string
}
