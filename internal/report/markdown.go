// Package report renders snapshot comparisons for people: Markdown
// changelogs, plain-text summaries, unified listing diffs and JSON.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/modsnap/internal/diff"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
)

// Changelog is the input to Markdown.
type Changelog struct {
	Title       string
	Report      *diff.ChangeReport
	Current     *snapshots.Snapshot
	Previous    *snapshots.Snapshot // nil on a first or forced scan
	GeneratedAt time.Time
}

// Markdown renders a changelog document: header with counts, one section
// per non-empty change category, the currently disabled and unreadable
// archives, and a footer with totals.
func Markdown(c Changelog) string {
	var b strings.Builder

	title := c.Title
	if title == "" {
		title = snapshots.DefaultBaseName
	}
	fmt.Fprintf(&b, "# %s: Changelog\n\n", title)

	generated := c.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	fmt.Fprintf(&b, "**Date:** %s\n\n", generated.Local().Format("2006-01-02 15:04"))

	stats := c.Current.Stats()
	fmt.Fprintf(&b, "**Active mods:** %d  •  Disabled: %d  •  Unreadable: %d\n\n",
		stats.Active, stats.Disabled, stats.Failed)

	if c.Previous != nil {
		fmt.Fprintf(&b, "**Compared with:** %s\n\n", c.Previous.Timestamp.Local().Format(time.RFC3339))
	}

	b.WriteString("---\n\n")

	r := c.Report
	writeSection(&b, "Added", r.Added, "")
	if len(r.Updated) > 0 {
		fmt.Fprintf(&b, "## Updated (%d)\n\n", len(r.Updated))
		for _, u := range r.Updated {
			fmt.Fprintf(&b, "* `%s` → **%s** (was %s)\n", u.New.Label(), versionText(u.New.Version), versionText(u.Old.Version))
		}
		b.WriteString("\n")
	}
	writeSection(&b, "Removed", r.Removed, "")
	writeSection(&b, "Newly disabled", r.Disabled, "*Likely incompatible or conflicting with the current release.*")
	writeSection(&b, "Re-enabled", r.ReEnabled, "")

	if disabled := c.Current.Disabled(); len(disabled) > 0 {
		b.WriteString("---\n\n")
		writeSection(&b, "Currently disabled", disabled, "")
	}

	if failed := c.Current.Failed(); len(failed) > 0 {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "## Unreadable files (%d)\n\n", len(failed))
		for _, f := range failed {
			fmt.Fprintf(&b, "* `%s` (metadata could not be read)\n", f.FileName)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("**Tip:** after large updates, deleting `config/` (or at least the configs of misbehaving mods) often helps.\n\n")
	fmt.Fprintf(&b, "_(Unchanged: %d • Total changes: %d)_\n", r.Unchanged, r.TotalChanges())

	return b.String()
}

func writeSection(b *strings.Builder, heading string, records []*snapshots.PackageRecord, note string) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s (%d)\n\n", heading, len(records))
	if note != "" {
		b.WriteString(note + "\n\n")
	}
	for _, r := range records {
		fmt.Fprintf(b, "* `%s` %s\n", r.Label(), versionText(r.Version))
	}
	b.WriteString("\n")
}

func versionText(v string) string {
	if v == "" {
		return "(unknown version)"
	}
	return "v" + v
}
