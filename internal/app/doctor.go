package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/config"
	"github.com/blackwell-systems/modsnap/internal/profiles"
	"github.com/blackwell-systems/modsnap/internal/store"
	"github.com/blackwell-systems/modsnap/internal/watcher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common issues",
	Long: `Runs diagnostic checks on your modsnap setup.

Checks:
  • Config file parses
  • Database exists and is accessible
  • Launcher profiles directory is found
  • Watch daemon status
  • Recommends next steps

Warnings do not make the command fail; critical issues do.`,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Running modsnap diagnostics...")
	fmt.Println()

	criticalIssues := 0
	warningIssues := 0

	// Check 1: Config file
	settings := config.DefaultSettings()
	if path, err := getConfigPath(); err != nil {
		fmt.Println("✗ Config path error:", err)
		criticalIssues++
	} else if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("✓ No config file, using defaults:", path)
	} else if loaded, err := config.LoadSettings(path); err != nil {
		fmt.Println("✗ Config file invalid:", err)
		fmt.Println("  Action: Fix or remove", path)
		criticalIssues++
	} else {
		settings = loaded
		fmt.Println("✓ Config file loaded:", path)
	}

	// Check 2: Database exists
	resolvedDBPath, err := getDBPath()
	if err != nil {
		fmt.Println("✗ Database path error:", err)
		criticalIssues++
	} else if _, err := os.Stat(resolvedDBPath); os.IsNotExist(err) {
		fmt.Println("⚠ Database not found at:", resolvedDBPath)
		fmt.Println("  Action: Run 'modsnap scan <mods-dir>' to create it")
		warningIssues++
	} else {
		// Check 3: Database accessible
		db, err := store.New(resolvedDBPath)
		if err != nil {
			fmt.Println("✗ Cannot open database:", err)
			criticalIssues++
		} else {
			defer db.Close()
			count, err := db.CountSnapshots()
			switch {
			case errors.Is(err, store.ErrNotInitialized):
				fmt.Println("⚠ Database has no snapshots table")
				fmt.Println("  Action: Run 'modsnap scan <mods-dir>'")
				warningIssues++
			case err != nil:
				fmt.Println("✗ Cannot read snapshots:", err)
				criticalIssues++
			default:
				fmt.Printf("✓ Database accessible (%d snapshots)\n", count)
			}
		}
	}

	// Check 4: Profiles root (warning only)
	root, err := getProfilesRoot(settings)
	if err != nil {
		fmt.Println("⚠ Cannot determine launcher profiles directory:", err)
		warningIssues++
	} else if list, err := profiles.Discover(root, loadAliases(root)); err != nil {
		fmt.Println("⚠ Cannot read launcher profiles:", err)
		warningIssues++
	} else if len(list) == 0 {
		fmt.Println("⚠ No launcher profiles with a mods folder in:", root)
		fmt.Println("  Action: Set profiles_root in config.yaml or pass a mods directory")
		warningIssues++
	} else {
		fmt.Printf("✓ %d launcher profiles found in %s\n", len(list), root)
	}

	// Check 5: Watch daemon (informational)
	if pidFile, err := getDefaultPIDFile(); err == nil {
		if running, _ := watcher.IsDaemonRunning(pidFile); running {
			fmt.Println("✓ Watch daemon running")
		} else {
			fmt.Println("  Watch daemon not running")
		}
	}

	fmt.Println()
	if criticalIssues == 0 && warningIssues == 0 {
		fmt.Println("✓ All checks passed!")
		return nil
	}

	if criticalIssues > 0 {
		fmt.Printf("Found %d critical issue(s) and %d warning(s).\n", criticalIssues, warningIssues)
		return fmt.Errorf("diagnostics failed")
	}

	fmt.Printf("Found %d warning(s). modsnap works but is not fully configured.\n", warningIssues)
	return nil
}
