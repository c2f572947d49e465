package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/modsnap/internal/archive"
)

// DefaultDebounce is the quiet period after the last archive event before
// OnChange fires.
const DefaultDebounce = 2 * time.Second

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watcher already running")

// Config holds the parameters for a Watcher.
type Config struct {
	// Dir is the mods directory to watch. Sub-directories are ignored.
	Dir string
	// Debounce falls back to DefaultDebounce when zero or negative.
	Debounce time.Duration
	// Logger defaults to a discarding logger.
	Logger *log.Logger
	// OnChange receives the sorted, de-duplicated archive names that changed
	// during the debounce window. Calls never overlap.
	OnChange func(ctx context.Context, changed []string) error
}

// Watcher monitors one mods directory.
type Watcher struct {
	cfg      Config
	dir      string
	fsw      *fsnotify.Watcher
	logger   *log.Logger
	debounce time.Duration
	started  atomic.Bool
}

// New resolves cfg.Dir and registers it with fsnotify.
func New(cfg Config) (*Watcher, error) {
	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mods directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat mods directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		cfg:      cfg,
		dir:      abs,
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
	}, nil
}

// Dir returns the absolute path being watched.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run processes events until ctx is cancelled and returns nil on
// cancellation. Callback errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.fsw.Close()

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		cbMu    sync.Mutex
		wg      sync.WaitGroup
	)

	fire := func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}

		// Serialize callbacks; events that arrive meanwhile start a new window.
		cbMu.Lock()
		defer cbMu.Unlock()

		mu.Lock()
		changed := make([]string, 0, len(pending))
		for name := range pending {
			changed = append(changed, name)
		}
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		sort.Strings(changed)

		w.logger.Debug("archives changed", "dir", w.dir, "files", len(changed))
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("rescan failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("fsnotify event channel closed")
			}
			name, relevant := w.relevant(evt)
			if !relevant {
				continue
			}
			w.logger.Debug("archive event", "file", name, "op", evt.Op.String())

			mu.Lock()
			pending[name] = struct{}{}
			if timer == nil || !timer.Stop() {
				wg.Add(1)
			}
			timer = time.AfterFunc(w.debounce, fire)
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("fsnotify error channel closed")
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// relevant reports whether evt concerns a mod archive directly inside the
// watched directory and returns its base name.
func (w *Watcher) relevant(evt fsnotify.Event) (string, bool) {
	if evt.Op == fsnotify.Chmod {
		return "", false
	}
	if filepath.Dir(evt.Name) != w.dir {
		return "", false
	}
	name := filepath.Base(evt.Name)
	return name, archive.IsArchiveName(name)
}
