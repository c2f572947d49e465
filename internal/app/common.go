package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/config"
	"github.com/blackwell-systems/modsnap/internal/profiles"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
	"github.com/blackwell-systems/modsnap/internal/store"
)

// openStore opens the database and creates the schema if needed.
func openStore() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}
	return st, nil
}

// loadSettings reads config.yaml, falling back to defaults.
func loadSettings() (*config.Settings, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return config.LoadSettings(path)
}

// newManager builds the snapshot manager for the configured snapshot dir.
func newManager(st *store.Store, settings *config.Settings) *snapshots.Manager {
	return snapshots.New(st, settings.SnapshotDir)
}

// getProfilesRoot returns the launcher profiles directory.
func getProfilesRoot(settings *config.Settings) (string, error) {
	if settings.ProfilesRoot != "" {
		return settings.ProfilesRoot, nil
	}
	return profiles.DefaultRoot()
}

// loadAliases merges the modsnap aliases file with the launcher's
// aliases.json in root. Entries in the modsnap file win.
func loadAliases(root string) *config.AliasConfig {
	var aliases *config.AliasConfig
	dir, err := config.Dir()
	if err == nil {
		aliases, err = config.LoadAliases(dir)
	}
	if err != nil || aliases == nil {
		logger.Warn("could not read aliases file", "err", err)
		aliases = &config.AliasConfig{Aliases: map[string]string{}}
	}

	if err := aliases.MergeJSONAliases(filepath.Join(root, profiles.AliasFileName)); err != nil {
		logger.Warn("could not read launcher aliases", "err", err)
	}
	return aliases
}

// discoverProfiles lists launcher profiles under the configured root.
func discoverProfiles(settings *config.Settings) ([]profiles.Profile, string, error) {
	root, err := getProfilesRoot(settings)
	if err != nil {
		return nil, "", fmt.Errorf("failed to locate launcher profiles: %w", err)
	}
	list, err := profiles.Discover(root, loadAliases(root))
	if err != nil {
		return nil, root, err
	}
	return list, root, nil
}

// errNoModsDir is returned when neither a directory nor --profile is given.
var errNoModsDir = errors.New("no mods directory given: pass a path or --profile")

// resolveModsDir picks the mods directory from the positional argument or
// a profile name.
func resolveModsDir(args []string, profileName string, settings *config.Settings) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if profileName == "" {
		return "", errNoModsDir
	}

	list, root, err := discoverProfiles(settings)
	if err != nil {
		return "", err
	}
	p, ok := profiles.Find(list, profileName)
	if !ok {
		return "", fmt.Errorf("profile %q not found under %s (run 'modsnap profiles')", profileName, root)
	}
	return p.ModsPath, nil
}

// resolveProfileDir accepts a profile directory path or a profile name.
func resolveProfileDir(ref string, settings *config.Settings) (string, error) {
	if info, err := os.Stat(ref); err == nil && info.IsDir() {
		return ref, nil
	}

	list, root, err := discoverProfiles(settings)
	if err != nil {
		return "", err
	}
	p, ok := profiles.Find(list, ref)
	if !ok {
		return "", fmt.Errorf("profile %q not found under %s (run 'modsnap profiles')", ref, root)
	}
	return p.Dir(), nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
