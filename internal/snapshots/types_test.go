package snapshots

import (
	"testing"
	"time"

	"github.com/blackwell-systems/modsnap/internal/metadata"
)

func testSnapshot() *Snapshot {
	snap := NewSnapshot("/games/profile/mods", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	for _, r := range []*PackageRecord{
		{Identifier: "sodium", DisplayName: "Sodium", Version: "0.5.8", FileName: "sodium-0.5.8.jar", Enabled: true, Loader: metadata.LoaderFabric, ExtractionMode: metadata.ModeStructured},
		{Identifier: "iris", DisplayName: "iris", Version: "1.7.0", FileName: "iris.jar.disabled", Enabled: false, Loader: metadata.LoaderFabric, ExtractionMode: metadata.ModeSanitized},
		{Identifier: "broken.jar", FileName: "broken.jar", Enabled: true, ExtractionMode: metadata.ModeUnknown},
		{Identifier: "appleskin", DisplayName: "AppleSkin", Version: "2.5.1", FileName: "appleskin.jar", Enabled: true, ExtractionMode: metadata.ModeFallback},
	} {
		snap.Records[r.Identifier] = r
	}
	return snap
}

func TestPackageRecord_Label(t *testing.T) {
	r := &PackageRecord{Identifier: "foo"}
	if r.Label() != "foo" {
		t.Errorf("Label() = %q, want identifier fallback", r.Label())
	}
	r.DisplayName = "Foo Mod"
	if r.Label() != "Foo Mod" {
		t.Errorf("Label() = %q, want display name", r.Label())
	}
}

func TestNewSnapshot_TruncatesToUTCSeconds(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	snap := NewSnapshot("/mods", time.Date(2024, 6, 1, 12, 0, 0, 999, loc))

	if snap.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp location = %v, want UTC", snap.Timestamp.Location())
	}
	if snap.Timestamp.Nanosecond() != 0 {
		t.Errorf("timestamp not truncated: %v", snap.Timestamp)
	}
	if snap.Timestamp.Hour() != 10 {
		t.Errorf("timestamp hour = %d, want 10", snap.Timestamp.Hour())
	}
}

func TestSnapshot_Stats(t *testing.T) {
	got := testSnapshot().Stats()
	want := Stats{Total: 4, Active: 3, Disabled: 1, Failed: 1}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}

	var nilSnap *Snapshot
	if nilSnap.Stats() != (Stats{}) {
		t.Error("nil snapshot should have zero stats")
	}
}

func TestSnapshot_Sorted(t *testing.T) {
	got := testSnapshot().Sorted()

	want := []string{"appleskin", "broken.jar", "iris", "sodium"}
	if len(got) != len(want) {
		t.Fatalf("Sorted() returned %d records, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].Identifier != id {
			t.Errorf("Sorted()[%d] = %s, want %s", i, got[i].Identifier, id)
		}
	}
}

func TestSortRecords_TieBreaksOnIdentifier(t *testing.T) {
	records := []*PackageRecord{
		{Identifier: "b", DisplayName: "Same"},
		{Identifier: "a", DisplayName: "same"},
	}
	SortRecords(records)
	if records[0].Identifier != "a" {
		t.Errorf("expected identifier tie-break, got %s first", records[0].Identifier)
	}
}

func TestSnapshot_DisabledAndFailed(t *testing.T) {
	snap := testSnapshot()

	disabled := snap.Disabled()
	if len(disabled) != 1 || disabled[0].Identifier != "iris" {
		t.Errorf("Disabled() = %v", disabled)
	}

	failed := snap.Failed()
	if len(failed) != 1 || failed[0].Identifier != "broken.jar" {
		t.Errorf("Failed() = %v", failed)
	}
}

func TestSnapshot_Equal(t *testing.T) {
	a := testSnapshot()
	b := testSnapshot()
	if !a.Equal(b) {
		t.Fatal("identical snapshots should be equal")
	}

	b.Records["sodium"].Version = "0.6.0"
	if a.Equal(b) {
		t.Error("snapshots with different versions should not be equal")
	}

	c := testSnapshot()
	delete(c.Records, "iris")
	if a.Equal(c) {
		t.Error("snapshots with different record sets should not be equal")
	}

	var nilSnap *Snapshot
	if nilSnap.Equal(a) || a.Equal(nil) {
		t.Error("nil snapshot should only equal nil")
	}
}
