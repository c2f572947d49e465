package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file, aliases file and database",
	Long: `Set up modsnap in one step.

Steps performed:
  1. Write config.yaml with the default settings
  2. Write an aliases file template for launcher profile names
  3. Create the snapshot database

Existing files are kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config and aliases files")
	RootCmd.AddCommand(initCmd)
}

const aliasesTemplate = `# modsnap profile aliases
# Format: <profile folder>=<label>
# Example:
# Skyblock (2)=Skyblock Full
`

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := getConfigDir()
	if err != nil {
		return err
	}

	// Step 1: config.yaml
	cfgPath, err := getConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfgPath); err == nil && !initForce {
		fmt.Println("  ✓ Config file exists:", cfgPath)
	} else {
		if err := config.SaveSettings(cfgPath, config.DefaultSettings()); err != nil {
			return err
		}
		fmt.Println("  ✓ Config file written:", cfgPath)
	}

	// Step 2: aliases
	aliasesPath := filepath.Join(dir, "aliases")
	if _, err := os.Stat(aliasesPath); err == nil && !initForce {
		fmt.Println("  ✓ Aliases file exists:", aliasesPath)
	} else {
		if err := os.WriteFile(aliasesPath, []byte(aliasesTemplate), 0644); err != nil {
			return fmt.Errorf("failed to write aliases file: %w", err)
		}
		fmt.Println("  ✓ Aliases file written:", aliasesPath)
	}

	// Step 3: database
	st, err := openStore()
	if err != nil {
		return err
	}
	st.Close()

	resolvedDBPath, _ := getDBPath()
	fmt.Println("  ✓ Database ready:", resolvedDBPath)
	fmt.Println()
	fmt.Println("Next: modsnap scan <mods-dir>   or   modsnap profiles")
	return nil
}
