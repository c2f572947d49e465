package archive

import "strings"

const (
	// EnabledExt marks an active mod archive.
	EnabledExt = ".jar"
	// DisabledExt marks an archive the launcher will skip.
	DisabledExt = ".jar.disabled"
)

// IsArchiveName reports whether a directory entry name is a mod archive,
// enabled or disabled.
func IsArchiveName(name string) bool {
	return strings.HasSuffix(name, EnabledExt) || strings.HasSuffix(name, DisabledExt)
}

// IsDisabledName reports whether name carries the disabled suffix.
func IsDisabledName(name string) bool {
	return strings.HasSuffix(name, DisabledExt)
}

// TrimArchiveExt strips ".jar" or ".jar.disabled" from name.
// Example: "sodium-0.5.8.jar.disabled" -> "sodium-0.5.8"
func TrimArchiveExt(name string) string {
	if strings.HasSuffix(name, DisabledExt) {
		return strings.TrimSuffix(name, DisabledExt)
	}
	return strings.TrimSuffix(name, EnabledExt)
}
