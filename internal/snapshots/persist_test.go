package snapshots

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/modsnap/internal/metadata"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack-1.0-full"+SnapshotSuffix)
	snap := testSnapshot()

	if err := Save(path, snap); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !snap.Equal(loaded) {
		t.Errorf("round trip mismatch:\n got: %+v\nwant: %+v", loaded, snap)
	}
}

func TestSave_RecordsSortedByIdentifier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := Save(path, testSnapshot()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	var doc struct {
		Records []struct {
			Identifier string `json:"identifier"`
		} `json:"records"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("failed to parse saved file: %v", err)
	}

	want := []string{"appleskin", "broken.jar", "iris", "sodium"}
	for i, id := range want {
		if doc.Records[i].Identifier != id {
			t.Errorf("records[%d] = %s, want %s", i, doc.Records[i].Identifier, id)
		}
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap.json")

	for i := 0; i < 2; i++ {
		if err := Save(path, testSnapshot()); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot file, found %d entries", len(entries))
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{"},
		{"no records", `{"timestamp": "2024-01-01T00:00:00Z"}`},
		{"record without identifier", `{"timestamp": "2024-01-01T00:00:00Z", "records": [{"file_name": "a.jar"}]}`},
		{"duplicate identifier", `{"records": [{"identifier": "a"}, {"identifier": "a"}]}`},
		{"bad timestamp", `{"timestamp": "yesterday", "records": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}

			_, err := Load(path)
			if !errors.Is(err, ErrCorruptSnapshot) {
				t.Errorf("Load() error = %v, want ErrCorruptSnapshot", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestLoad_LegacyLayout(t *testing.T) {
	legacy := `{
  "timestamp": "2024-03-10T18:22:05.123+01:00",
  "mods_dir": "C:\\Users\\me\\profiles\\pack\\mods",
  "active": [
    {"filename": "sodium.jar", "id": "sodium", "name": "Sodium", "version": "0.5.8", "loader": "fabric", "disabled": false}
  ],
  "disabled": [
    {"filename": "iris.jar.disabled", "id": "iris", "name": "Iris", "version": "1.7.0", "loader": "fabric", "disabled": true}
  ],
  "failed": ["broken.jar"],
  "stats": {"total": 3, "active": 1, "disabled": 1, "failed": 1}
}`
	path := filepath.Join(t.TempDir(), "old"+SnapshotSuffix)
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if snap.SourcePath != `C:\Users\me\profiles\pack\mods` {
		t.Errorf("SourcePath = %q", snap.SourcePath)
	}
	if snap.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", snap.Len())
	}
	if r := snap.Get("iris"); r == nil || r.Enabled || r.DisplayName != "Iris" {
		t.Errorf("iris record = %+v", r)
	}
	if r := snap.Get("broken.jar"); r == nil || r.ExtractionMode != metadata.ModeUnknown || !r.Enabled {
		t.Errorf("broken.jar record = %+v", r)
	}
	if got := snap.Stats(); got != (Stats{Total: 3, Active: 2, Disabled: 1, Failed: 1}) {
		t.Errorf("Stats() = %+v", got)
	}
}
