package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/blackwell-systems/modsnap/internal/archive"
	"github.com/blackwell-systems/modsnap/internal/metadata"
)

// ErrCorruptSnapshot is returned when a stored snapshot cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// snapshotFile is the on-disk JSON document.
type snapshotFile struct {
	Timestamp  time.Time        `json:"timestamp"`
	SourcePath string           `json:"source_path"`
	Stats      *Stats           `json:"stats,omitempty"`
	Records    []*PackageRecord `json:"records"`
}

// legacyMod and legacyFile describe the older document layout that split
// records into active and disabled lists.
type legacyMod struct {
	Filename string `json:"filename"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Loader   string `json:"loader"`
	Disabled bool   `json:"disabled"`
}

type legacyFile struct {
	Timestamp time.Time   `json:"timestamp"`
	ModsDir   string      `json:"mods_dir"`
	Active    []legacyMod `json:"active"`
	Disabled  []legacyMod `json:"disabled"`
	Failed    []string    `json:"failed"`
}

// Marshal encodes a snapshot as indented JSON with records sorted by
// identifier.
func Marshal(s *Snapshot) ([]byte, error) {
	ids := make([]string, 0, len(s.Records))
	for id := range s.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	doc := snapshotFile{
		Timestamp:  s.Timestamp,
		SourcePath: s.SourcePath,
		Records:    make([]*PackageRecord, 0, len(ids)),
	}
	stats := s.Stats()
	doc.Stats = &stats
	for _, id := range ids {
		doc.Records = append(doc.Records, s.Records[id])
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal decodes a snapshot document. Both the current format and the
// legacy active/disabled format are accepted.
func Unmarshal(data []byte) (*Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	if _, ok := probe["records"]; !ok {
		if _, legacy := probe["mods_dir"]; legacy {
			return unmarshalLegacy(data)
		}
		return nil, fmt.Errorf("%w: no records field", ErrCorruptSnapshot)
	}

	var doc snapshotFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	s := &Snapshot{
		Timestamp:  doc.Timestamp,
		SourcePath: doc.SourcePath,
		Records:    make(map[string]*PackageRecord, len(doc.Records)),
	}
	for i, r := range doc.Records {
		if r == nil || r.Identifier == "" {
			return nil, fmt.Errorf("%w: record %d has no identifier", ErrCorruptSnapshot, i)
		}
		if _, dup := s.Records[r.Identifier]; dup {
			return nil, fmt.Errorf("%w: duplicate identifier %q", ErrCorruptSnapshot, r.Identifier)
		}
		s.Records[r.Identifier] = r
	}
	return s, nil
}

func unmarshalLegacy(data []byte) (*Snapshot, error) {
	var doc legacyFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	s := &Snapshot{
		Timestamp:  doc.Timestamp,
		SourcePath: doc.ModsDir,
		Records:    make(map[string]*PackageRecord),
	}

	add := func(m legacyMod, enabled bool) {
		id := m.ID
		if id == "" {
			id = m.Filename
		}
		s.Records[id] = &PackageRecord{
			Identifier:  id,
			DisplayName: m.Name,
			Version:     m.Version,
			FileName:    m.Filename,
			Enabled:     enabled,
			Loader:      m.Loader,
		}
	}
	for _, m := range doc.Active {
		add(m, true)
	}
	for _, m := range doc.Disabled {
		add(m, false)
	}
	for _, name := range doc.Failed {
		s.Records[name] = &PackageRecord{
			Identifier:     name,
			FileName:       name,
			Enabled:        !archive.IsDisabledName(name),
			ExtractionMode: metadata.ModeUnknown,
		}
	}
	return s, nil
}

// Save writes the snapshot to path atomically: the document is written to a
// temporary file in the same directory and renamed into place.
func Save(path string, s *Snapshot) error {
	tmpPath, err := writeTemp(path, s)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move snapshot file into place: %w", err)
	}
	return nil
}

// writeTemp writes the encoded snapshot to a synced temporary file next to
// path and returns its name. The caller renames or removes it.
func writeTemp(path string, s *Snapshot) (string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to sync snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close snapshot file: %w", err)
	}
	return tmpPath, nil
}

// Load reads a snapshot file written by Save or in the legacy layout.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	s, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return s, nil
}
