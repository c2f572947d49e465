package snapshots

import (
	"sort"
	"strings"
	"time"

	"github.com/blackwell-systems/modsnap/internal/metadata"
	"github.com/blackwell-systems/modsnap/internal/store"
)

// PackageRecord describes one mod archive found in a scanned directory.
type PackageRecord struct {
	Identifier     string        `json:"identifier"`
	DisplayName    string        `json:"display_name"`
	Version        string        `json:"version"`
	FileName       string        `json:"file_name"`
	Enabled        bool          `json:"enabled"`
	Loader         string        `json:"loader,omitempty"`
	ExtractionMode metadata.Mode `json:"extraction_mode,omitempty"`
}

// Label returns the display name, or the identifier when no name is known.
func (r *PackageRecord) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Identifier
}

// Less orders records case-insensitively by label, then by identifier.
func Less(a, b *PackageRecord) bool {
	la, lb := strings.ToLower(a.Label()), strings.ToLower(b.Label())
	if la != lb {
		return la < lb
	}
	return a.Identifier < b.Identifier
}

// SortRecords sorts records in report order (see Less).
func SortRecords(records []*PackageRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return Less(records[i], records[j])
	})
}

// Snapshot is an immutable inventory of one directory at one point in time.
// Records is keyed by identifier. Callers must not mutate a Snapshot after
// it has been built.
type Snapshot struct {
	Timestamp  time.Time
	SourcePath string
	Records    map[string]*PackageRecord
}

// Stats summarizes a snapshot. Failed counts archives whose metadata could
// not be read at all.
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Disabled int `json:"disabled"`
	Failed   int `json:"failed"`
}

// NewSnapshot creates an empty snapshot for sourcePath captured at ts.
// The timestamp is stored in UTC with second precision.
func NewSnapshot(sourcePath string, ts time.Time) *Snapshot {
	return &Snapshot{
		Timestamp:  ts.UTC().Truncate(time.Second),
		SourcePath: sourcePath,
		Records:    make(map[string]*PackageRecord),
	}
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Get returns the record for identifier, or nil.
func (s *Snapshot) Get(identifier string) *PackageRecord {
	if s == nil {
		return nil
	}
	return s.Records[identifier]
}

// Sorted returns the records in report order.
func (s *Snapshot) Sorted() []*PackageRecord {
	if s == nil {
		return nil
	}
	out := make([]*PackageRecord, 0, len(s.Records))
	for _, r := range s.Records {
		out = append(out, r)
	}
	SortRecords(out)
	return out
}

// Disabled returns the disabled records in report order.
func (s *Snapshot) Disabled() []*PackageRecord {
	var out []*PackageRecord
	for _, r := range s.Sorted() {
		if !r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// Failed returns the records produced without any readable metadata,
// in report order.
func (s *Snapshot) Failed() []*PackageRecord {
	var out []*PackageRecord
	for _, r := range s.Sorted() {
		if r.ExtractionMode == metadata.ModeUnknown {
			out = append(out, r)
		}
	}
	return out
}

// Stats computes the snapshot summary.
func (s *Snapshot) Stats() Stats {
	var st Stats
	if s == nil {
		return st
	}
	for _, r := range s.Records {
		st.Total++
		if r.Enabled {
			st.Active++
		} else {
			st.Disabled++
		}
		if r.ExtractionMode == metadata.ModeUnknown {
			st.Failed++
		}
	}
	return st
}

// Equal reports whether two snapshots hold the same timestamp, source path
// and records, field for field.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if !s.Timestamp.Equal(other.Timestamp) || s.SourcePath != other.SourcePath {
		return false
	}
	if len(s.Records) != len(other.Records) {
		return false
	}
	for id, r := range s.Records {
		o, ok := other.Records[id]
		if !ok || *r != *o {
			return false
		}
	}
	return true
}

// Manager manages snapshot files and their index in the store.
type Manager struct {
	store       *store.Store
	snapshotDir string
}

// New creates a new snapshot Manager. snapshotDir is where snapshot files are
// written when the caller does not pass an explicit directory.
func New(store *store.Store, snapshotDir string) *Manager {
	return &Manager{
		store:       store,
		snapshotDir: snapshotDir,
	}
}
