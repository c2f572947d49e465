package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/config"
)

var (
	dbPath     string
	configPath string
	verbose    bool

	// logger is replaced in PersistentPreRun once --verbose is known.
	logger = newLogger(false)

	// RootCmd is the root command for modsnap
	RootCmd = &cobra.Command{
		Use:   "modsnap",
		Short: "Snapshot and compare the mods of a modpack",
		Long: `modsnap reads the metadata of every mod archive in a mods directory,
records it as a snapshot and reports what changed since the previous one.

Each scan writes "<pack>-<version>-<edition>.mods_snapshot.json" and a
matching changelog next to the mods directory, and indexes the snapshot in a
local database so older snapshots can be compared later.

Quick Start:
  1. modsnap scan ~/games/pack/mods
  2. update, add or disable mods
  3. modsnap scan ~/games/pack/mods   # prints and writes the changelog

Features:
  • Repairs and reads malformed fabric.mod.json / quilt.mod.json files
  • Detects added, removed, updated, disabled and re-enabled mods
  • Markdown changelogs ready to paste into release notes
  • Snapshot history with diffs between any two scans
  • Modrinth App profile discovery and pack version branding

Examples:
  # Scan a launcher profile by name
  modsnap scan --profile "Skyblock Lite" --pack-version 1.4.0

  # Compare the two most recent scans
  modsnap diff previous latest

  # Rescan automatically while editing a pack
  modsnap watch ~/games/pack/mods`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("modsnap: mod snapshots and changelogs")
			fmt.Println()
			fmt.Println("Run 'modsnap scan <mods-dir>' to take a snapshot.")
			fmt.Println("Run 'modsnap --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.config/modsnap/modsnap.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/modsnap/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-file diagnostics")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(scanCmd)
	RootCmd.AddCommand(watchCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func newLogger(debug bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "modsnap",
		Level:  log.InfoLevel,
	})
	if debug {
		l.SetLevel(log.DebugLevel)
		l.SetReportTimestamp(true)
	}
	return l
}

// getConfigDir returns the modsnap config directory, creating it.
func getConfigDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "modsnap.db"), nil
}

// getConfigPath returns the settings file path, using the flag value or default
func getConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// getDefaultPIDFile returns the default PID file path
func getDefaultPIDFile() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.pid"), nil
}

// getDefaultLogFile returns the default log file path
func getDefaultLogFile() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.log"), nil
}
