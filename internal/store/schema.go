package store

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    source_path TEXT NOT NULL,
    label TEXT,
    record_count INTEGER,
    snapshot_path TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_records (
    snapshot_id INTEGER NOT NULL,
    identifier TEXT NOT NULL,
    display_name TEXT,
    version TEXT,
    file_name TEXT NOT NULL,
    enabled BOOLEAN NOT NULL,
    loader TEXT,
    extraction_mode TEXT,
    PRIMARY KEY (snapshot_id, identifier),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_snapshots_source ON snapshots(source_path, created_at);
CREATE INDEX IF NOT EXISTS idx_snapshot_records ON snapshot_records(snapshot_id);
`
