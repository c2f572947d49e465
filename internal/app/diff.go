package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/modsnap/internal/diff"
	"github.com/blackwell-systems/modsnap/internal/report"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
)

var (
	diffFormat string
	diffSource string
	diffTitle  string
	diffRender bool

	diffCmd = &cobra.Command{
		Use:   "diff [old] [new]",
		Short: "Compare two snapshots",
		Long: `Compare two snapshots and print what changed between them.

A snapshot can be referenced by:
  <id>        The numeric ID shown by 'modsnap history'
  latest      The most recent indexed snapshot
  previous    The snapshot taken before the most recent one
  <path>      A .mods_snapshot.json file

Without arguments, previous is compared with latest. Use --source to
restrict latest and previous to one mods directory.

Formats:
  markdown    Changelog document (default)
  text        One line per change
  unified     Unified diff of "id version" listings
  json        Machine-readable change report`,
		Example: `  # What changed in the last scan
  modsnap diff

  # Compare two indexed snapshots
  modsnap diff 12 15 --format text

  # Compare snapshot files
  modsnap diff old.mods_snapshot.json new.mods_snapshot.json --format unified`,
		Args: cobra.MaximumNArgs(2),
		RunE: runDiff,
	}
)

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", string(report.FormatMarkdown), "output format: markdown, text, unified or json")
	diffCmd.Flags().StringVar(&diffSource, "source", "", "mods directory latest/previous refer to (default: any)")
	diffCmd.Flags().StringVar(&diffTitle, "title", "", "changelog title for markdown output")
	diffCmd.Flags().BoolVar(&diffRender, "render", false, "render markdown output for the terminal")

	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(diffFormat)
	if err != nil {
		return err
	}

	oldRef, newRef := snapshots.RefPrevious, snapshots.RefLatest
	switch len(args) {
	case 1:
		oldRef = args[0]
	case 2:
		oldRef, newRef = args[0], args[1]
	}

	source := diffSource
	if source != "" {
		if source, err = filepath.Abs(source); err != nil {
			return fmt.Errorf("failed to resolve source: %w", err)
		}
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
	mgr := newManager(st, settings)

	before, err := mgr.Resolve(oldRef, source)
	if err != nil {
		return err
	}
	after, err := mgr.Resolve(newRef, source)
	if err != nil {
		return err
	}

	out, err := formatComparison(format, before, after, oldRef, newRef, diffTitle)
	if err != nil {
		return err
	}
	if diffRender && format == report.FormatMarkdown {
		if out, err = report.Render(out, 100); err != nil {
			return err
		}
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}

// formatComparison renders the comparison of two snapshots in format.
func formatComparison(format report.Format, before, after *snapshots.Snapshot, oldRef, newRef, title string) (string, error) {
	r := diff.Diff(before, after)

	switch format {
	case report.FormatText:
		var b strings.Builder
		if err := report.Text(&b, r); err != nil {
			return "", err
		}
		return b.String(), nil
	case report.FormatJSON:
		var b strings.Builder
		if err := report.JSON(&b, r); err != nil {
			return "", err
		}
		return b.String(), nil
	case report.FormatUnified:
		return report.Unified(before, after, oldRef, newRef)
	}

	if title == "" {
		title = snapshots.DefaultBaseName
	}
	generated := after.Timestamp
	if generated.IsZero() {
		generated = time.Now()
	}
	return report.Markdown(report.Changelog{
		Title:       title,
		Report:      r,
		Current:     after,
		Previous:    before,
		GeneratedAt: generated,
	}), nil
}
