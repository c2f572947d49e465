package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/output"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
)

var (
	historySource string
	historyDir    string
	historyLimit  int

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List snapshots",
		Long: `List indexed snapshots, newest first.

With --dir, list the .mods_snapshot.json files in a directory instead of
the database. This also finds snapshots written before the database
existed or copied from another machine.`,
		Example: `  # All indexed snapshots
  modsnap history

  # Snapshots of one mods directory
  modsnap history --source ~/games/pack/mods

  # Snapshot files next to a profile's mods folder
  modsnap history --dir ~/games/pack`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().StringVar(&historySource, "source", "", "only list snapshots of this mods directory")
	historyCmd.Flags().StringVar(&historyDir, "dir", "", "list snapshot files in this directory instead of the database")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most this many snapshots (0 = all)")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyDir != "" {
		entries, err := snapshots.ListHistory(historyDir)
		if err != nil {
			return err
		}
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}
		fmt.Print(output.RenderHistoryTable(entries))
		return nil
	}

	source := historySource
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

	rows, err := newManager(st, settings).ListSnapshots(source)
	if err != nil {
		return err
	}
	if historyLimit > 0 && len(rows) > historyLimit {
		rows = rows[:historyLimit]
	}

	fmt.Print(output.RenderSnapshotTable(rows))
	if len(rows) > 0 {
		fmt.Println()
		fmt.Println("Compare two snapshots with: modsnap diff <old-id> <new-id>")
	}
	return nil
}
