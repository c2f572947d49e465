package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/config"
	"github.com/blackwell-systems/modsnap/internal/diff"
	"github.com/blackwell-systems/modsnap/internal/output"
	"github.com/blackwell-systems/modsnap/internal/report"
	"github.com/blackwell-systems/modsnap/internal/scanner"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
	"github.com/blackwell-systems/modsnap/internal/store"
)

var (
	scanProfile     string
	scanBaseName    string
	scanEdition     string
	scanPackVersion string
	scanForceNew    bool
	scanNoSave      bool
	scanWorkers     int
	scanQuiet       bool
	scanRender      bool

	scanCmd = &cobra.Command{
		Use:   "scan [mods-dir]",
		Short: "Snapshot a mods directory and write its changelog",
		Long: `Read every .jar and .jar.disabled archive in a mods directory, record the
mods as a snapshot and compare it with the previous snapshot of the same
pack, edition and version.

The snapshot is written to "<pack>-<version>-<edition>.mods_snapshot.json"
and the changelog to "<pack>-<version>-<edition>.changelog.md", both next to
the mods directory unless snapshot_dir is configured. The snapshot is also
indexed in the database so 'modsnap diff' and 'modsnap history' can use it.

Archives whose metadata cannot be read are still listed, by file name.`,
		Example: `  # Scan a directory
  modsnap scan ~/games/pack/mods

  # Scan a launcher profile and name the release
  modsnap scan --profile "Skyblock Lite" --edition lite --pack-version 1.4.0

  # Treat every mod as new (first release of a pack)
  modsnap scan ~/games/pack/mods --force-new

  # Preview without writing anything, rendered for the terminal
  modsnap scan ~/games/pack/mods --no-save --render`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
)

func init() {
	scanCmd.Flags().StringVarP(&scanProfile, "profile", "p", "", "launcher profile name or folder to scan")
	scanCmd.Flags().StringVar(&scanBaseName, "base-name", "", "pack name for titles and file names (default from config)")
	scanCmd.Flags().StringVar(&scanEdition, "edition", "", "pack edition: full, lite or a custom name (default from config)")
	scanCmd.Flags().StringVar(&scanPackVersion, "pack-version", "", "pack version (default: packVersion from menu.properties)")
	scanCmd.Flags().BoolVar(&scanForceNew, "force-new", false, "ignore the previous snapshot and report every mod as added")
	scanCmd.Flags().BoolVar(&scanNoSave, "no-save", false, "do not write snapshot or changelog files")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "j", 0, "archives read in parallel (default from config, 0 = one per CPU)")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress output")
	scanCmd.Flags().BoolVar(&scanRender, "render", false, "print the changelog rendered as Markdown")
}

// scanOptions configures performScan.
type scanOptions struct {
	ModsDir     string
	BaseName    string
	Edition     string
	PackVersion string
	ForceNew    bool
	NoSave      bool
	Workers     int
	// RetentionDays > 0 removes older indexed snapshots after saving.
	RetentionDays int
	// Baseline overrides the stored previous snapshot when set.
	Baseline *snapshots.Snapshot
	Progress scanner.ProgressFunc
	Logger   *log.Logger
}

// scanResult is everything a scan produced.
type scanResult struct {
	Snapshot      *snapshots.Snapshot
	Previous      *snapshots.Snapshot
	Report        *diff.ChangeReport
	Title         string
	Markdown      string
	Row           *store.Snapshot
	SnapshotPath  string
	ChangelogPath string
}

func runScan(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	modsDir, err := resolveModsDir(args, scanProfile, settings)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	opts := scanOptionsFromFlags(settings, modsDir)

	var progress *output.ProgressBar
	if !scanQuiet && isatty.IsTerminal(os.Stderr.Fd()) {
		progress = output.NewProgress(0, "Scanned")
		opts.Progress = progress.Update
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	res, err := performScan(ctx, newManager(st, settings), opts)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	if scanQuiet {
		return nil
	}
	return printScanResult(res, scanRender)
}

// scanOptionsFromFlags merges command-line flags over settings.
func scanOptionsFromFlags(settings *config.Settings, modsDir string) scanOptions {
	opts := scanOptions{
		ModsDir:       modsDir,
		BaseName:      settings.BaseName,
		Edition:       settings.Edition,
		PackVersion:   scanPackVersion,
		ForceNew:      scanForceNew,
		NoSave:        scanNoSave,
		Workers:       settings.Workers,
		RetentionDays: settings.RetentionDays,
		Logger:        logger,
	}
	if scanBaseName != "" {
		opts.BaseName = scanBaseName
	}
	if scanEdition != "" {
		opts.Edition = scanEdition
	}
	if scanWorkers > 0 {
		opts.Workers = scanWorkers
	}
	return opts
}

// performScan scans opts.ModsDir, compares it with the previous snapshot
// and, unless NoSave is set, writes and indexes the results.
func performScan(ctx context.Context, mgr *snapshots.Manager, opts scanOptions) (*scanResult, error) {
	abs, err := filepath.Abs(opts.ModsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mods directory: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}

	packVersion := opts.PackVersion
	if packVersion == "" {
		packVersion = readProfilePackVersion(abs)
	}
	prefix := snapshots.FilePrefix(opts.BaseName, opts.Edition, packVersion)

	s := scanner.New(scanner.Options{
		Workers:  opts.Workers,
		Logger:   opts.Logger,
		Progress: opts.Progress,
	})
	snap, err := s.Scan(ctx, abs)
	if err != nil {
		return nil, fmt.Errorf("failed to scan mods: %w", err)
	}

	res := &scanResult{
		Snapshot:      snap,
		Title:         snapshots.DisplayName(opts.BaseName, opts.Edition, packVersion),
		SnapshotPath:  mgr.Path(abs, prefix),
		ChangelogPath: filepath.Join(mgr.Dir(abs), snapshots.ChangelogFileName(prefix)),
	}

	if !opts.ForceNew {
		res.Previous = opts.Baseline
		if res.Previous == nil {
			res.Previous = findBaseline(mgr, abs, res.SnapshotPath, opts.Logger)
		}
	}

	res.Report = diff.Diff(res.Previous, snap)
	res.Markdown = report.Markdown(report.Changelog{
		Title:       res.Title,
		Report:      res.Report,
		Current:     snap,
		Previous:    res.Previous,
		GeneratedAt: snap.Timestamp,
	})

	if opts.NoSave {
		return res, nil
	}

	res.Row, err = mgr.Create(snap, prefix, res.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := os.WriteFile(res.ChangelogPath, []byte(res.Markdown), 0644); err != nil {
		return nil, fmt.Errorf("failed to write changelog: %w", err)
	}

	if opts.RetentionDays > 0 {
		removed, err := mgr.CleanupOldSnapshots(time.Duration(opts.RetentionDays) * 24 * time.Hour)
		if err != nil {
			opts.Logger.Warn("snapshot cleanup failed", "err", err)
		} else if removed > 0 {
			opts.Logger.Info("removed old snapshots", "count", removed, "retention_days", opts.RetentionDays)
		}
	}

	return res, nil
}

// findBaseline returns the snapshot file with the same prefix, or the
// newest indexed snapshot of the directory, or nil for a first scan.
func findBaseline(mgr *snapshots.Manager, sourcePath, snapshotPath string, l *log.Logger) *snapshots.Snapshot {
	if _, err := os.Stat(snapshotPath); err == nil {
		prev, err := snapshots.Load(snapshotPath)
		if err == nil {
			return prev
		}
		l.Warn("ignoring unreadable previous snapshot", "path", snapshotPath, "err", err)
	}

	prev, err := mgr.Resolve(snapshots.RefLatest, sourcePath)
	if err != nil {
		if !errors.Is(err, store.ErrSnapshotNotFound) {
			l.Warn("could not load previous snapshot", "err", err)
		}
		return nil
	}
	return prev
}

// readProfilePackVersion reads packVersion from the profile that owns
// modsDir. Missing files yield "".
func readProfilePackVersion(modsDir string) string {
	path := config.MenuPropertiesPath(filepath.Dir(modsDir))
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	version, _, err := config.ReadPackVersion(path)
	if err != nil {
		logger.Debug("could not read pack version", "path", path, "err", err)
		return ""
	}
	return version
}

func printScanResult(res *scanResult, render bool) error {
	if render {
		out, err := report.Render(res.Markdown, 100)
		if err != nil {
			return err
		}
		fmt.Print(out)
	} else {
		fmt.Printf("%s\n\n", res.Title)
		fmt.Print(output.RenderStats(res.Snapshot.Stats()))
		fmt.Println()
		if res.Previous == nil {
			fmt.Println("No previous snapshot; every mod is reported as added.")
		}
		if err := report.Text(os.Stdout, res.Report); err != nil {
			return err
		}
	}

	if res.Row != nil {
		fmt.Println()
		fmt.Printf("✓ Snapshot %d saved: %s\n", res.Row.ID, res.SnapshotPath)
		fmt.Printf("✓ Changelog written: %s\n", res.ChangelogPath)
	}
	return nil
}
