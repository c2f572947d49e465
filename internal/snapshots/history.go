package snapshots

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// HistoryEntry is a snapshot file found on disk.
type HistoryEntry struct {
	FileName  string
	Path      string
	Timestamp time.Time // zero when the file could not be read
	Stats     Stats
	Err       error
}

// ListHistory finds snapshot files in dir, newest first. Unreadable files
// are listed with Err set and sort last.
func ListHistory(dir string) ([]HistoryEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var history []HistoryEntry
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), SnapshotSuffix) {
			continue
		}

		entry := HistoryEntry{
			FileName: e.Name(),
			Path:     filepath.Join(dir, e.Name()),
		}
		if snap, err := Load(entry.Path); err != nil {
			entry.Err = err
		} else {
			entry.Timestamp = snap.Timestamp
			entry.Stats = snap.Stats()
		}
		history = append(history, entry)
	}

	sort.SliceStable(history, func(i, j int) bool {
		if !history[i].Timestamp.Equal(history[j].Timestamp) {
			return history[i].Timestamp.After(history[j].Timestamp)
		}
		return history[i].FileName < history[j].FileName
	})

	return history, nil
}
