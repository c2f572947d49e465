package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/modsnap/internal/archive"
	"github.com/blackwell-systems/modsnap/internal/metadata"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
)

// ErrDirectory is returned when the mods directory cannot be listed.
var ErrDirectory = errors.New("mods directory unavailable")

// ListArchives returns the mod archive names in dir, sorted
// lexicographically.
func ListArchives(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectory, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !archive.IsArchiveName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names, nil
}

// Scan reads every mod archive in dir and returns a snapshot of them.
//
// Only an unreadable directory is fatal. Archives that cannot be opened or
// whose descriptor cannot be parsed still produce a record. When two
// archives declare the same identifier, the one sorting last by file name
// wins. If ctx is cancelled, Scan returns ctx.Err() and no snapshot.
func (s *Scanner) Scan(ctx context.Context, dir string) (*snapshots.Snapshot, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectory, err)
	}

	names, err := ListArchives(abs)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("scanning mods directory", "dir", abs, "archives", len(names), "workers", s.workers)

	records := make([]*snapshots.PackageRecord, len(names))

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, name := range names {
		if gctx.Err() != nil {
			break
		}
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = s.processFile(abs, name)

			if s.progress != nil {
				mu.Lock()
				done++
				s.progress(done, len(names), name)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := snapshots.NewSnapshot(abs, time.Now())
	for _, rec := range records {
		if prev, ok := snap.Records[rec.Identifier]; ok {
			s.logger.Warn("duplicate mod identifier",
				"id", rec.Identifier,
				"replaced", prev.FileName,
				"kept", rec.FileName,
			)
		}
		snap.Records[rec.Identifier] = rec
	}

	stats := snap.Stats()
	s.logger.Debug("scan complete",
		"total", stats.Total,
		"active", stats.Active,
		"disabled", stats.Disabled,
		"failed", stats.Failed,
	)

	return snap, nil
}

// processFile runs the read, extract and build pipeline for one archive.
func (s *Scanner) processFile(dir, name string) *snapshots.PackageRecord {
	entry, err := archive.ReadMetadata(filepath.Join(dir, name))
	if err != nil {
		s.logger.Debug("no readable metadata", "file", name, "err", err)
		return BuildRecord(name, metadata.Result{})
	}

	res := metadata.Extract(entry.Data)
	for _, a := range res.Attempts {
		if a.Err != nil {
			s.logger.Debug("extraction attempt failed", "file", name, "mode", a.Mode, "err", a.Err)
		}
	}

	rec := BuildRecord(name, res)
	if rec.Loader == "" {
		rec.Loader = loaderForEntry(entry.Name)
	}
	return rec
}
