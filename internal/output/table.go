// Package output provides terminal output utilities for modsnap.
//
// This package includes:
//   - Table rendering for snapshot records, indexed snapshots, snapshot files and profiles
//   - A progress bar for scans and a spinner for idle watchers
//   - Human-readable formatting for dates and counts
//
// Tables use box-drawing rules and ANSI color codes; color is disabled when
// stdout is not a terminal or NO_COLOR is set.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/modsnap/internal/metadata"
	"github.com/blackwell-systems/modsnap/internal/profiles"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
	"github.com/blackwell-systems/modsnap/internal/store"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderRecordTable renders the records of one snapshot in the given order.
func RenderRecordTable(records []*snapshots.PackageRecord) string {
	if len(records) == 0 {
		return "No mods found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-32s %-20s %-9s %-7s %s\n",
		"Mod", "Version", "Status", "Loader", "Metadata"))
	sb.WriteString(strings.Repeat("─", 84))
	sb.WriteString("\n")

	for _, r := range records {
		version := r.Version
		if version == "" {
			version = "?"
		}

		sb.WriteString(fmt.Sprintf("%-32s %-20s %s %-7s %s\n",
			pad(truncate(r.Label(), 32), 32),
			pad(truncate(version, 20), 20),
			formatStatus(r.Enabled),
			r.Loader,
			formatMode(r.ExtractionMode)))
	}

	return sb.String()
}

// RenderStats renders a one-line snapshot summary.
func RenderStats(st snapshots.Stats) string {
	line := fmt.Sprintf("%d mods: %d active, %d disabled", st.Total, st.Active, st.Disabled)
	if st.Failed > 0 {
		line += ", " + colorize(colorRed, fmt.Sprintf("%d unreadable", st.Failed))
	}
	return line + "\n"
}

// RenderSnapshotTable renders indexed snapshots in the given order.
func RenderSnapshotTable(rows []*store.Snapshot) string {
	if len(rows) == 0 {
		return "No snapshots found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-5s %-17s %-6s %-24s %s\n",
		"ID", "Created", "Mods", "Label", "Directory"))
	sb.WriteString(strings.Repeat("─", 90))
	sb.WriteString("\n")

	for _, snap := range rows {
		sb.WriteString(fmt.Sprintf("%-5d %-17s %-6d %-24s %s\n",
			snap.ID,
			formatRelativeTime(snap.CreatedAt),
			snap.RecordCount,
			pad(truncate(snap.Label, 24), 24),
			snap.SourcePath))
	}

	return sb.String()
}

// RenderHistoryTable renders snapshot files found on disk.
func RenderHistoryTable(entries []snapshots.HistoryEntry) string {
	if len(entries) == 0 {
		return "No snapshot files found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-44s %-17s %6s %6s %8s %6s\n",
		"File", "Taken", "Total", "Active", "Disabled", "Failed"))
	sb.WriteString(strings.Repeat("─", 92))
	sb.WriteString("\n")

	for _, e := range entries {
		if e.Err != nil {
			sb.WriteString(fmt.Sprintf("%-44s %s\n",
				pad(truncate(e.FileName, 44), 44),
				colorize(colorRed, "unreadable")))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-44s %-17s %6d %6d %8d %6d\n",
			pad(truncate(e.FileName, 44), 44),
			formatRelativeTime(e.Timestamp),
			e.Stats.Total,
			e.Stats.Active,
			e.Stats.Disabled,
			e.Stats.Failed))
	}

	return sb.String()
}

// RenderProfileTable renders discovered launcher profiles.
func RenderProfileTable(list []profiles.Profile) string {
	if len(list) == 0 {
		return "No profiles found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-30s %-30s %5s\n", "Profile", "Folder", "Jars"))
	sb.WriteString(strings.Repeat("─", 67))
	sb.WriteString("\n")

	for _, p := range list {
		sb.WriteString(fmt.Sprintf("%-30s %-30s %5d\n",
			pad(truncate(p.DisplayName, 30), 30),
			pad(truncate(p.FolderName, 30), 30),
			p.JarCount))
	}

	return sb.String()
}

// formatStatus returns a fixed-width, colored enabled/disabled label.
func formatStatus(enabled bool) string {
	if enabled {
		return colorize(colorGreen, pad("enabled", 9))
	}
	return colorize(colorYellow, pad("disabled", 9))
}

// formatMode labels how a record's metadata was obtained.
func formatMode(mode metadata.Mode) string {
	switch mode {
	case metadata.ModeStructured:
		return "ok"
	case metadata.ModeSanitized:
		return colorize(colorGray, "repaired")
	case metadata.ModeFallback:
		return colorize(colorYellow, "partial")
	default:
		return colorize(colorRed, "unreadable")
	}
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := time.Since(t)
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24/7), "week")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/24/30), "month")
	default:
		return plural(int(d.Hours()/24/365), "year")
	}
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// pad right-pads s with spaces to width runes. Colored columns must be
// padded before colorize is applied.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
