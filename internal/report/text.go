package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/blackwell-systems/modsnap/internal/diff"
)

// Text writes a compact line-per-change summary.
func Text(w io.Writer, r *diff.ChangeReport) error {
	if !r.HasChanges() {
		_, err := fmt.Fprintf(w, "No changes (%d unchanged)\n", r.Unchanged)
		return err
	}

	for _, rec := range r.Added {
		fmt.Fprintf(w, "+ %s %s\n", rec.Label(), rec.Version)
	}
	for _, u := range r.Updated {
		fmt.Fprintf(w, "~ %s %s -> %s\n", u.New.Label(), u.Old.Version, u.New.Version)
	}
	for _, rec := range r.Removed {
		fmt.Fprintf(w, "- %s %s\n", rec.Label(), rec.Version)
	}
	for _, rec := range r.Disabled {
		fmt.Fprintf(w, "x %s %s (disabled)\n", rec.Label(), rec.Version)
	}
	for _, rec := range r.ReEnabled {
		fmt.Fprintf(w, "o %s %s (re-enabled)\n", rec.Label(), rec.Version)
	}

	_, err := fmt.Fprintf(w, "\n%d changes, %d unchanged\n", r.TotalChanges(), r.Unchanged)
	return err
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, r *diff.ChangeReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
