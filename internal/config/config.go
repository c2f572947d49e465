// Package config provides configuration file parsing for modsnap.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Dir returns the modsnap config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/modsnap if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "modsnap"), nil
}

// Settings are the user defaults read from config.yaml. Command-line flags
// override them.
type Settings struct {
	// BaseName is the pack name used in changelog titles and file prefixes.
	BaseName string `yaml:"base_name"`
	// Edition is "Full", "Lite" or a custom edition name.
	Edition string `yaml:"edition"`
	// Workers bounds concurrent archive reads. Zero means one per CPU.
	Workers int `yaml:"workers"`
	// SnapshotDir overrides where snapshot files are written. Empty means
	// next to the scanned mods directory.
	SnapshotDir string `yaml:"snapshot_dir"`
	// ProfilesRoot overrides the launcher profiles directory.
	ProfilesRoot string `yaml:"profiles_root"`
	// RetentionDays removes indexed snapshots older than this many days
	// after each scan. Zero keeps everything.
	RetentionDays int `yaml:"retention_days"`
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		BaseName: "Modpack",
		Edition:  "Full",
	}
}

// LoadSettings reads settings from path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if s.Workers < 0 {
		return nil, fmt.Errorf("invalid config %s: workers must not be negative", path)
	}
	if s.RetentionDays < 0 {
		return nil, fmt.Errorf("invalid config %s: retention_days must not be negative", path)
	}

	return s, nil
}

// SaveSettings writes settings to path as YAML, creating parent directories.
func SaveSettings(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
