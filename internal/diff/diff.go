// Package diff classifies the changes between two snapshots.
package diff

import (
	"sort"

	"github.com/blackwell-systems/modsnap/internal/snapshots"
)

// Update pairs the old and new record of a package whose version changed.
type Update struct {
	Old *snapshots.PackageRecord `json:"old"`
	New *snapshots.PackageRecord `json:"new"`
}

// ChangeReport is the classified difference between two snapshots. Every
// identifier present in either snapshot lands in exactly one category.
type ChangeReport struct {
	Added     []*snapshots.PackageRecord `json:"added"`
	Removed   []*snapshots.PackageRecord `json:"removed"`
	Updated   []Update                   `json:"updated"`
	Disabled  []*snapshots.PackageRecord `json:"disabled"`
	ReEnabled []*snapshots.PackageRecord `json:"re_enabled"`
	Unchanged int                        `json:"unchanged"`
}

// HasChanges reports whether any category other than unchanged is non-empty.
func (c *ChangeReport) HasChanges() bool {
	return c.TotalChanges() > 0
}

// TotalChanges counts the changed packages.
func (c *ChangeReport) TotalChanges() int {
	return len(c.Added) + len(c.Removed) + len(c.Updated) + len(c.Disabled) + len(c.ReEnabled)
}

// Diff compares before against after. A nil snapshot is treated as empty.
//
// A package whose version string differs is reported as Updated even if its
// enabled state also flipped. Otherwise an enabled to disabled transition is
// Disabled and the reverse is ReEnabled. Each list is ordered
// case-insensitively by label, then by identifier.
func Diff(before, after *snapshots.Snapshot) *ChangeReport {
	report := &ChangeReport{
		Added:     []*snapshots.PackageRecord{},
		Removed:   []*snapshots.PackageRecord{},
		Updated:   []Update{},
		Disabled:  []*snapshots.PackageRecord{},
		ReEnabled: []*snapshots.PackageRecord{},
	}

	oldRecords := records(before)
	newRecords := records(after)

	for id, n := range newRecords {
		o, ok := oldRecords[id]
		switch {
		case !ok:
			report.Added = append(report.Added, n)
		case o.Version != n.Version:
			report.Updated = append(report.Updated, Update{Old: o, New: n})
		case o.Enabled && !n.Enabled:
			report.Disabled = append(report.Disabled, n)
		case !o.Enabled && n.Enabled:
			report.ReEnabled = append(report.ReEnabled, n)
		default:
			report.Unchanged++
		}
	}

	for id, o := range oldRecords {
		if _, ok := newRecords[id]; !ok {
			report.Removed = append(report.Removed, o)
		}
	}

	snapshots.SortRecords(report.Added)
	snapshots.SortRecords(report.Removed)
	snapshots.SortRecords(report.Disabled)
	snapshots.SortRecords(report.ReEnabled)
	sortUpdates(report.Updated)

	return report
}

func records(s *snapshots.Snapshot) map[string]*snapshots.PackageRecord {
	if s == nil {
		return nil
	}
	return s.Records
}

// sortUpdates orders updates by the new record's label.
func sortUpdates(updates []Update) {
	sort.SliceStable(updates, func(i, j int) bool {
		return snapshots.Less(updates[i].New, updates[j].New)
	})
}
