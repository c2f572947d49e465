package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/config"
	"github.com/blackwell-systems/modsnap/internal/output"
	"github.com/blackwell-systems/modsnap/internal/report"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
	"github.com/blackwell-systems/modsnap/internal/watcher"
)

var (
	watchProfile     string
	watchDebounce    time.Duration
	watchSave        bool
	watchDaemon      bool
	watchDaemonChild bool
	watchPIDFile     string
	watchLogFile     string
	watchStop        bool

	watchCmd = &cobra.Command{
		Use:   "watch [mods-dir]",
		Short: "Rescan a mods directory whenever its archives change",
		Long: `Watch a mods directory and print what changed each time mod archives are
added, removed, replaced, disabled or re-enabled.

Events are coalesced: the rescan starts once no archive has changed for the
debounce period. Each rescan is compared with the previous one. With --save
every rescan is also written and indexed like 'modsnap scan'.

Watch modes:
  • Foreground (default): Run in current terminal with Ctrl+C to stop
  • Daemon: Run as background process, output goes to the log file
  • Stop: Stop a running daemon`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  modsnap watch ~/games/pack/mods

  # Watch a launcher profile and save every rescan
  modsnap watch --profile "Skyblock Lite" --save

  # Run as background daemon
  modsnap watch ~/games/pack/mods --daemon

  # Stop running daemon
  modsnap watch --stop`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().StringVarP(&watchProfile, "profile", "p", "", "launcher profile name or folder to watch")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before rescanning")
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "write and index a snapshot on every rescan")
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.config/modsnap/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.config/modsnap/watch.log)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")

	// Hide the internal daemon-child flag from help
	watchCmd.Flags().MarkHidden("daemon-child")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}
	if watchLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		watchLogFile = defaultLog
	}

	if watchStop {
		if err := watcher.StopDaemon(watchPIDFile); err != nil {
			return err
		}
		fmt.Println("✓ Watch daemon stopped")
		return nil
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	modsDir, err := resolveModsDir(args, watchProfile, settings)
	if err != nil {
		return err
	}

	if watchDaemon {
		if err := watcher.StartDaemon(daemonArgs(os.Args[1:]), watchPIDFile, watchLogFile); err != nil {
			return err
		}
		fmt.Printf("✓ Watching %s in the background\n", modsDir)
		fmt.Printf("  Log: %s\n", watchLogFile)
		fmt.Println("  Stop with: modsnap watch --stop")
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	session := &watchSession{
		mgr:      newManager(st, settings),
		settings: settings,
		modsDir:  modsDir,
	}
	if err := session.rescan(commandContext(cmd), nil); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{
		Dir:      modsDir,
		Debounce: watchDebounce,
		Logger:   logger,
		OnChange: session.rescan,
	})
	if err != nil {
		return err
	}

	if watchDaemonChild {
		return watcher.RunDaemon(commandContext(cmd), w, watchPIDFile)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spinner := output.NewSpinner(fmt.Sprintf("Watching %s (Ctrl+C to stop)", w.Dir()))
	session.spinner = spinner
	spinner.Start()
	defer spinner.Stop()

	return w.Run(ctx)
}

// daemonArgs drops the --daemon flag so the child runs in the foreground.
func daemonArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--daemon" || strings.HasPrefix(a, "--daemon=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// watchSession keeps the last scan so each rescan reports only what changed
// since then.
type watchSession struct {
	mgr      *snapshots.Manager
	settings *config.Settings
	modsDir  string
	last     *snapshots.Snapshot
	spinner  *output.Spinner
}

func (s *watchSession) rescan(ctx context.Context, changed []string) error {
	if s.spinner != nil {
		s.spinner.Stop()
		defer s.spinner.Start()
	}

	opts := scanOptions{
		ModsDir:       s.modsDir,
		BaseName:      s.settings.BaseName,
		Edition:       s.settings.Edition,
		Workers:       s.settings.Workers,
		RetentionDays: s.settings.RetentionDays,
		NoSave:        !watchSave,
		Baseline:      s.last,
		Logger:        logger,
	}
	// The first pass compares against the stored history like a scan does.
	res, err := performScan(ctx, s.mgr, opts)
	if err != nil {
		return err
	}
	first := s.last == nil
	s.last = res.Snapshot

	now := time.Now().Format("15:04:05")
	if first {
		fmt.Printf("[%s] %s", now, output.RenderStats(res.Snapshot.Stats()))
		return nil
	}

	fmt.Printf("[%s] %d archive(s) changed\n", now, len(changed))
	if err := report.Text(os.Stdout, res.Report); err != nil {
		return err
	}
	if res.Row != nil {
		fmt.Printf("✓ Snapshot %d saved\n", res.Row.ID)
	}
	fmt.Println()
	return nil
}
