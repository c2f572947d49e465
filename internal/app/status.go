package app

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/store"
	"github.com/blackwell-systems/modsnap/internal/watcher"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show indexed directories and watch daemon status",
	Long: `Display which mods directories have snapshots, when each was last scanned,
and whether the watch daemon is running.`,
	Example: `  modsnap status`,
	Args:    cobra.NoArgs,
	RunE:    runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	resolvedDBPath, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	const label = "%-14s"

	pidFile, err := getDefaultPIDFile()
	if err != nil {
		return fmt.Errorf("failed to get PID file path: %w", err)
	}
	running, err := watcher.IsDaemonRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		fmt.Printf(label+"running\n", "Watch:")
	} else {
		fmt.Printf(label+"stopped\n", "Watch:")
	}

	if _, err := os.Stat(resolvedDBPath); os.IsNotExist(err) {
		fmt.Printf(label+"none yet (run 'modsnap scan <mods-dir>')\n", "Database:")
		return nil
	}

	st, err := store.New(resolvedDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	count, err := st.CountSnapshots()
	if err != nil {
		return err
	}
	sources, err := st.ListSources()
	if err != nil {
		return err
	}

	fmt.Printf(label+"%s\n", "Database:", resolvedDBPath)
	fmt.Printf(label+"%d in %d director%s\n", "Snapshots:", count, len(sources), plural(len(sources), "y", "ies"))

	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		return sources[paths[i]].After(sources[paths[j]])
	})

	if len(paths) > 0 {
		fmt.Println()
		for _, p := range paths {
			fmt.Printf("  %s  %s\n", sources[p].Local().Format(time.DateTime), p)
		}
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
