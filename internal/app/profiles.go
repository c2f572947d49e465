package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/output"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List Modrinth App profiles that contain mods",
	Long: `List the launcher profiles that have a mods folder, with the number of mod
archives in each.

Profile names come from aliases when one is defined for the folder:
  ~/.config/modsnap/aliases       folder=label lines
  <profiles root>/aliases.json    {"folder": "label"} (launcher side)

The profiles root defaults to the Modrinth App data directory and can be
changed with profiles_root in config.yaml.`,
	Example: `  modsnap profiles
  modsnap scan --profile "Skyblock Lite"`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

func init() {
	RootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	list, root, err := discoverProfiles(settings)
	if err != nil {
		return err
	}

	fmt.Printf("Profiles in %s\n\n", root)
	fmt.Print(output.RenderProfileTable(list))
	return nil
}
