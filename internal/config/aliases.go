package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AliasConfig maps launcher profile folder names to the labels shown for
// them, e.g. "Skyblock (2)" = "Skyblock Lite".
type AliasConfig struct {
	Aliases map[string]string
}

// Lookup returns the alias for folder, or folder itself.
func (a *AliasConfig) Lookup(folder string) string {
	if a != nil {
		if label, ok := a.Aliases[folder]; ok {
			return label
		}
	}
	return folder
}

// LoadAliases reads the aliases file at {dir}/aliases and returns the parsed
// config. If the file does not exist, an empty config is returned without an
// error. Invalid or malformed lines are silently skipped.
func LoadAliases(dir string) (*AliasConfig, error) {
	cfg := &AliasConfig{
		Aliases: make(map[string]string),
	}

	path := filepath.Join(dir, "aliases")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Folder names may contain spaces and parentheses but not "=".
		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		folder := strings.TrimSpace(line[:idx])
		label := strings.TrimSpace(line[idx+1:])

		if folder == "" || label == "" {
			continue
		}

		cfg.Aliases[folder] = label
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// MergeJSONAliases adds the entries of a launcher-side aliases.json file
// ({"folder": "label"}) that are not already defined. A missing file is
// not an error.
func (a *AliasConfig) MergeJSONAliases(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for folder, label := range entries {
		folder, label = strings.TrimSpace(folder), strings.TrimSpace(label)
		if folder == "" || label == "" {
			continue
		}
		if _, ok := a.Aliases[folder]; !ok {
			a.Aliases[folder] = label
		}
	}
	return nil
}
