package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/config"
)

var packVersionCmd = &cobra.Command{
	Use:   "pack-version",
	Short: "Read or set the pack version shown in the game menu",
	Long: `Read or set packVersion in a profile's config/packbranding/menu.properties.

The profile is a launcher profile name (see 'modsnap profiles') or the path
of a profile directory. 'modsnap scan' uses this version in file names and
changelog titles when --pack-version is not given.`,
	Example: `  modsnap pack-version get "Skyblock Lite"
  modsnap pack-version set ~/games/pack 1.4.1`,
}

var packVersionGetCmd = &cobra.Command{
	Use:   "get <profile>",
	Short: "Print the pack version of a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackVersionGet,
}

var packVersionSetCmd = &cobra.Command{
	Use:   "set <profile> <version>",
	Short: "Change the pack version of a profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runPackVersionSet,
}

func init() {
	packVersionCmd.AddCommand(packVersionGetCmd)
	packVersionCmd.AddCommand(packVersionSetCmd)
	RootCmd.AddCommand(packVersionCmd)
}

func menuPropertiesFor(ref string) (string, error) {
	settings, err := loadSettings()
	if err != nil {
		return "", err
	}
	dir, err := resolveProfileDir(ref, settings)
	if err != nil {
		return "", err
	}
	return config.MenuPropertiesPath(dir), nil
}

func runPackVersionGet(cmd *cobra.Command, args []string) error {
	path, err := menuPropertiesFor(args[0])
	if err != nil {
		return err
	}

	version, ok, err := config.ReadPackVersion(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", path, config.ErrPackVersionMissing)
	}
	fmt.Println(version)
	return nil
}

func runPackVersionSet(cmd *cobra.Command, args []string) error {
	path, err := menuPropertiesFor(args[0])
	if err != nil {
		return err
	}

	old, _, err := config.ReadPackVersion(path)
	if err != nil {
		return err
	}
	if err := config.WritePackVersion(path, args[1]); err != nil {
		return err
	}
	fmt.Printf("✓ packVersion %s -> %s (%s)\n", old, args[1], path)
	return nil
}
