package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/output"
	"github.com/blackwell-systems/modsnap/internal/report"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
)

var (
	showSource   string
	showDisabled bool
	showFailed   bool
	showListing  bool

	showCmd = &cobra.Command{
		Use:   "show [snapshot]",
		Short: "Print the mods recorded in a snapshot",
		Long: `Print the mods recorded in one snapshot, sorted by name.

The snapshot reference is an ID, latest, previous or a snapshot file path
(see 'modsnap diff --help'). It defaults to latest.`,
		Example: `  modsnap show
  modsnap show 12 --disabled
  modsnap show pack-1-4-0-lite.mods_snapshot.json --listing`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}
)

func init() {
	showCmd.Flags().StringVar(&showSource, "source", "", "mods directory latest/previous refer to (default: any)")
	showCmd.Flags().BoolVar(&showDisabled, "disabled", false, "only show disabled mods")
	showCmd.Flags().BoolVar(&showFailed, "failed", false, "only show archives whose metadata could not be read")
	showCmd.Flags().BoolVar(&showListing, "listing", false, `print plain "id version" lines`)

	RootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ref := snapshots.RefLatest
	if len(args) == 1 {
		ref = args[0]
	}

	source := showSource
	if source != "" {
		abs, err := filepath.Abs(source)
		if err != nil {
			return fmt.Errorf("failed to resolve source: %w", err)
		}
		source = abs
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	snap, err := newManager(st, settings).Resolve(ref, source)
	if err != nil {
		return err
	}

	if showListing {
		for _, line := range report.Listing(snap) {
			fmt.Print(line)
		}
		return nil
	}

	records := snap.Sorted()
	switch {
	case showDisabled:
		records = snap.Disabled()
	case showFailed:
		records = snap.Failed()
	}

	fmt.Printf("Snapshot of %s taken %s\n\n", snap.SourcePath, snap.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Print(output.RenderRecordTable(records))
	fmt.Println()
	fmt.Print(output.RenderStats(snap.Stats()))
	return nil
}
