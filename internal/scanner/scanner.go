package scanner

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"
)

// ProgressFunc is called once per processed archive. Calls are serialized.
type ProgressFunc func(done, total int, fileName string)

// Options configures a Scanner.
type Options struct {
	// Workers bounds how many archives are read concurrently.
	// Zero means runtime.NumCPU().
	Workers int
	// Logger receives per-file diagnostics. Nil discards them.
	Logger *log.Logger
	// Progress is optional.
	Progress ProgressFunc
}

// Scanner builds snapshots of mod directories.
type Scanner struct {
	workers  int
	logger   *log.Logger
	progress ProgressFunc
}

// New creates a new Scanner instance with the given options.
func New(opts Options) *Scanner {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Scanner{
		workers:  workers,
		logger:   logger,
		progress: opts.Progress,
	}
}
