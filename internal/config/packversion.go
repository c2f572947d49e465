package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const packVersionKey = "packVersion="

// ErrPackVersionMissing is returned when menu.properties has no packVersion
// entry to update.
var ErrPackVersionMissing = errors.New("packVersion key not found")

// MenuPropertiesPath returns the pack branding properties file of a launcher
// profile directory.
func MenuPropertiesPath(profileDir string) string {
	return filepath.Join(profileDir, "config", "packbranding", "menu.properties")
}

// ReadPackVersion returns the packVersion value from a menu.properties file.
// ok is false when the file has no uncommented packVersion entry.
func ReadPackVersion(path string) (version string, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if v, found := strings.CutPrefix(trimmed, packVersionKey); found {
			return strings.TrimSpace(v), true, nil
		}
	}
	return "", false, nil
}

// WritePackVersion replaces the first uncommented packVersion entry in a
// menu.properties file. Indentation, comments, other keys and CRLF line
// endings are preserved.
func WritePackVersion(path, version string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := string(data)
	crlf := strings.Contains(text, "\r\n")

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	replaced := false
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "#") || !strings.HasPrefix(trimmed, packVersionKey) {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		lines[i] = indent + packVersionKey + strings.TrimSpace(version)
		replaced = true
		break
	}

	if !replaced {
		return fmt.Errorf("%s: %w", path, ErrPackVersionMissing)
	}

	out := strings.Join(lines, "\n")
	if crlf {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
