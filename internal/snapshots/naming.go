package snapshots

import (
	"regexp"
	"strings"
)

// DefaultBaseName is used when no pack name is configured.
const DefaultBaseName = "Modpack"

// Edition names.
const (
	EditionFull = "Full"
	EditionLite = "Lite"
)

// File name suffixes for files written next to a mods directory.
const (
	SnapshotSuffix  = ".mods_snapshot.json"
	ChangelogSuffix = ".changelog.md"
)

var (
	slugSpace   = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9._\-]`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases s, turns whitespace runs into dashes and drops anything
// outside [a-z0-9._-]. An empty result becomes "pack".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	if s == "" {
		return "pack"
	}
	return s
}

// NormalizeEdition maps common spellings onto Full or Lite. Unknown editions
// are returned trimmed; an empty edition is Full.
func NormalizeEdition(edition string) string {
	e := strings.TrimSpace(edition)
	switch strings.ToLower(e) {
	case "", "full", "normal", "default":
		return EditionFull
	case "lite", "light", "minimal":
		return EditionLite
	}
	return e
}

// DisplayName builds the human title of a pack release, e.g. "Modpack 1.4"
// or "Modpack Lite 1.4". The Full edition is not named.
func DisplayName(baseName, edition, packVersion string) string {
	base := strings.TrimSpace(baseName)
	if base == "" {
		base = DefaultBaseName
	}
	ed := NormalizeEdition(edition)
	ver := strings.TrimSpace(packVersion)

	parts := []string{base}
	if !strings.EqualFold(ed, EditionFull) {
		parts = append(parts, ed)
	}
	if ver != "" {
		parts = append(parts, ver)
	}
	return strings.Join(parts, " ")
}

// FilePrefix builds the file name prefix "<base>-<version>-<edition>" shared
// by a snapshot file and its changelog.
func FilePrefix(baseName, edition, packVersion string) string {
	base := Slugify(baseName)
	if strings.TrimSpace(baseName) == "" {
		base = Slugify(DefaultBaseName)
	}
	ver := "unknown"
	if strings.TrimSpace(packVersion) != "" {
		ver = Slugify(packVersion)
	}
	return base + "-" + ver + "-" + Slugify(NormalizeEdition(edition))
}

// SnapshotFileName returns the snapshot file name for prefix.
func SnapshotFileName(prefix string) string {
	return prefix + SnapshotSuffix
}

// ChangelogFileName returns the changelog file name for prefix.
func ChangelogFileName(prefix string) string {
	return prefix + ChangelogSuffix
}
