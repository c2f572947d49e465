package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/blackwell-systems/modsnap/internal/snapshots"
)

// Listing renders one line per record, sorted by identifier:
// "<identifier> <version> [disabled]".
func Listing(s *snapshots.Snapshot) []string {
	if s == nil {
		return []string{}
	}
	records := s.Sorted()
	lines := make([]string, 0, len(records))
	for _, r := range records {
		line := r.Identifier + " " + r.Version
		if !r.Enabled {
			line += " [disabled]"
		}
		lines = append(lines, strings.TrimSpace(line)+"\n")
	}
	sort.Strings(lines)
	return lines
}

// Unified returns a unified diff of the two snapshot listings. It returns
// an empty string when the listings are identical.
func Unified(before, after *snapshots.Snapshot, beforeName, afterName string) (string, error) {
	u := difflib.UnifiedDiff{
		A:        Listing(before),
		B:        Listing(after),
		FromFile: beforeName,
		ToFile:   afterName,
		Context:  2,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("failed to build unified diff: %w", err)
	}
	return s, nil
}
