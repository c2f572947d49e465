package diff

import (
	"fmt"
	"testing"
	"time"

	"github.com/blackwell-systems/modsnap/internal/snapshots"
)

var testTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func snap(records ...*snapshots.PackageRecord) *snapshots.Snapshot {
	s := snapshots.NewSnapshot("/mods", testTime)
	for _, r := range records {
		s.Records[r.Identifier] = r
	}
	return s
}

func rec(id, version string, enabled bool) *snapshots.PackageRecord {
	return &snapshots.PackageRecord{Identifier: id, Version: version, FileName: id + ".jar", Enabled: enabled}
}

func ids(records []*snapshots.PackageRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Identifier
	}
	return out
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestDiff_DisabledOnly(t *testing.T) {
	report := Diff(
		snap(rec("foo", "v1.0", true)),
		snap(rec("foo", "v1.0", false)),
	)

	if !equalIDs(ids(report.Disabled), []string{"foo"}) {
		t.Errorf("Disabled = %v, want [foo]", ids(report.Disabled))
	}
	if len(report.Updated) != 0 || len(report.Added) != 0 || len(report.Removed) != 0 || len(report.ReEnabled) != 0 {
		t.Errorf("unexpected changes: %+v", report)
	}
	if report.Unchanged != 0 {
		t.Errorf("Unchanged = %d, want 0", report.Unchanged)
	}
}

func TestDiff_VersionChangeTakesPrecedence(t *testing.T) {
	before := rec("foo", "v1.0", true)
	after := rec("foo", "v2.0", false)

	report := Diff(snap(before), snap(after))

	if len(report.Updated) != 1 {
		t.Fatalf("Updated = %v, want one entry", report.Updated)
	}
	if report.Updated[0].Old != before || report.Updated[0].New != after {
		t.Errorf("Updated[0] = %+v, want (foo@v1.0, foo@v2.0)", report.Updated[0])
	}
	if len(report.Disabled) != 0 {
		t.Errorf("Disabled = %v, want empty", ids(report.Disabled))
	}
}

func TestDiff_FromEmpty(t *testing.T) {
	for name, before := range map[string]*snapshots.Snapshot{
		"empty snapshot": snap(),
		"nil snapshot":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			report := Diff(before, snap(rec("bar", "1", true)))

			if !equalIDs(ids(report.Added), []string{"bar"}) {
				t.Errorf("Added = %v, want [bar]", ids(report.Added))
			}
			if report.TotalChanges() != 1 || report.Unchanged != 0 {
				t.Errorf("unexpected report: %+v", report)
			}
		})
	}
}

func TestDiff_ReEnabledAndRemoved(t *testing.T) {
	report := Diff(
		snap(rec("a", "1", false), rec("gone", "1", true), rec("same", "1", true)),
		snap(rec("a", "1", true), rec("same", "1", true)),
	)

	if !equalIDs(ids(report.ReEnabled), []string{"a"}) {
		t.Errorf("ReEnabled = %v, want [a]", ids(report.ReEnabled))
	}
	if !equalIDs(ids(report.Removed), []string{"gone"}) {
		t.Errorf("Removed = %v, want [gone]", ids(report.Removed))
	}
	if report.Unchanged != 1 {
		t.Errorf("Unchanged = %d, want 1", report.Unchanged)
	}
}

func TestDiff_IdenticalSnapshots(t *testing.T) {
	s := snap(rec("a", "1", true), rec("b", "2", false))
	report := Diff(s, s)

	if report.HasChanges() {
		t.Errorf("identical snapshots reported changes: %+v", report)
	}
	if report.Unchanged != 2 {
		t.Errorf("Unchanged = %d, want 2", report.Unchanged)
	}
}

func TestDiff_BothNil(t *testing.T) {
	report := Diff(nil, nil)
	if report.HasChanges() || report.Unchanged != 0 {
		t.Errorf("Diff(nil, nil) = %+v", report)
	}
	if report.Added == nil || report.Updated == nil {
		t.Error("lists should be empty, not nil")
	}
}

func TestDiff_Ordering(t *testing.T) {
	named := func(id, name string) *snapshots.PackageRecord {
		r := rec(id, "1", true)
		r.DisplayName = name
		return r
	}

	report := Diff(nil, snap(
		named("z", "alpha"),
		named("a", "Zeta"),
		named("m", ""),
		named("y", "Beta"),
		named("x", "beta"),
	))

	want := []string{"z", "x", "y", "m", "a"}
	if !equalIDs(ids(report.Added), want) {
		t.Errorf("Added order = %v, want %v", ids(report.Added), want)
	}
}

func TestDiff_PartitionsEveryIdentifier(t *testing.T) {
	var before, after []*snapshots.PackageRecord
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("mod-%02d", i)
		switch i % 6 {
		case 0:
			before = append(before, rec(id, "1", true))
		case 1:
			after = append(after, rec(id, "1", true))
		case 2:
			before = append(before, rec(id, "1", true))
			after = append(after, rec(id, "2", i%4 == 0))
		case 3:
			before = append(before, rec(id, "1", true))
			after = append(after, rec(id, "1", false))
		case 4:
			before = append(before, rec(id, "1", false))
			after = append(after, rec(id, "1", true))
		case 5:
			before = append(before, rec(id, "1", true))
			after = append(after, rec(id, "1", true))
		}
	}

	report := Diff(snap(before...), snap(after...))

	seen := make(map[string]int)
	for _, r := range report.Added {
		seen[r.Identifier]++
	}
	for _, r := range report.Removed {
		seen[r.Identifier]++
	}
	for _, u := range report.Updated {
		seen[u.New.Identifier]++
	}
	for _, r := range report.Disabled {
		seen[r.Identifier]++
	}
	for _, r := range report.ReEnabled {
		seen[r.Identifier]++
	}

	if len(seen)+report.Unchanged != 60 {
		t.Errorf("classified %d + %d unchanged, want 60", len(seen), report.Unchanged)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("%s classified %d times", id, n)
		}
	}
	for _, n := range []int{len(report.Added), len(report.Removed), len(report.Updated), len(report.Disabled), len(report.ReEnabled), report.Unchanged} {
		if n != 10 {
			t.Errorf("category sizes = %d/%d/%d/%d/%d/%d, want 10 each",
				len(report.Added), len(report.Removed), len(report.Updated),
				len(report.Disabled), len(report.ReEnabled), report.Unchanged)
			break
		}
	}
}

func TestDiff_Symmetry(t *testing.T) {
	a := snap(rec("keep", "1", true), rec("old", "1", true), rec("flip", "1", true), rec("ver", "1", true))
	b := snap(rec("keep", "1", true), rec("new", "1", true), rec("flip", "1", false), rec("ver", "2", true))

	forward := Diff(a, b)
	backward := Diff(b, a)

	if !equalIDs(ids(forward.Added), ids(backward.Removed)) || !equalIDs(ids(forward.Removed), ids(backward.Added)) {
		t.Error("added/removed not symmetric")
	}
	if !equalIDs(ids(forward.Disabled), ids(backward.ReEnabled)) || !equalIDs(ids(forward.ReEnabled), ids(backward.Disabled)) {
		t.Error("disabled/re-enabled not symmetric")
	}
	if len(forward.Updated) != 1 || len(backward.Updated) != 1 ||
		forward.Updated[0].Old != backward.Updated[0].New {
		t.Error("updated not symmetric")
	}
	if forward.Unchanged != backward.Unchanged {
		t.Error("unchanged counts differ")
	}
}

func TestDiff_Deterministic(t *testing.T) {
	var before, after []*snapshots.PackageRecord
	for i := 0; i < 40; i++ {
		after = append(after, rec(fmt.Sprintf("m%d", i), "1", true))
	}
	first := ids(Diff(snap(before...), snap(after...)).Added)
	for i := 0; i < 10; i++ {
		if got := ids(Diff(snap(before...), snap(after...)).Added); !equalIDs(got, first) {
			t.Fatalf("run %d produced a different order", i)
		}
	}
}
