package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Plain io.Writer values such as
// *bytes.Buffer are never terminals.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// ProgressBar shows how many archives of a scan have been processed.
// Example: [==============>         ] 12/20 sodium-0.5.8.jar
//
// On a terminal the bar is redrawn in place. Elsewhere only the final
// line is written.
type ProgressBar struct {
	mu      sync.Mutex
	writer  io.Writer
	total   int
	current int
	label   string
	width   int
}

// NewProgress creates a progress bar for total items writing to stderr.
func NewProgress(total int, label string) *ProgressBar {
	return &ProgressBar{
		writer: os.Stderr,
		total:  total,
		label:  label,
		width:  30,
	}
}

// SetWriter sets the output writer (useful for testing).
func (p *ProgressBar) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = w
}

// Update records done items out of total; item is shown next to the bar.
// It matches scanner.ProgressFunc.
func (p *ProgressBar) Update(done, total int, item string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = min(done, total)
	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r\033[K%s", p.line(item))
	}
}

// Finish writes the completed bar followed by a newline.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = p.total
	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r\033[K%s\n", p.line(p.label))
		return
	}
	fmt.Fprintln(p.writer, p.line(p.label))
}

// line renders the bar (must be called with lock held).
func (p *ProgressBar) line(item string) string {
	filled := p.width
	if p.total > 0 {
		filled = p.current * p.width / p.total
	}

	var bar strings.Builder
	bar.WriteByte('[')
	for i := 0; i < p.width; i++ {
		switch {
		case i < filled-1 || (i == filled-1 && p.current == p.total):
			bar.WriteByte('=')
		case i == filled-1:
			bar.WriteByte('>')
		default:
			bar.WriteByte(' ')
		}
	}
	bar.WriteByte(']')

	return fmt.Sprintf("%s %d/%d %s", bar.String(), p.current, p.total, truncate(item, 40))
}

// Spinner shows that a long-running command is idle but alive, such as
// watch waiting for filesystem events. It does nothing on non-terminals.
type Spinner struct {
	mu      sync.Mutex
	writer  io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	return &Spinner{writer: os.Stderr, message: message}
}

// SetWriter sets the output writer (useful for testing).
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil || !writerIsTTY(s.writer) {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(s.stop, s.done)
}

func (s *Spinner) run(stop, done chan struct{}) {
	defer close(done)

	frames := []string{"|", "/", "-", "\\"}
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.mu.Lock()
		fmt.Fprintf(s.writer, "\r%s %s", frames[i%len(frames)], s.message)
		s.mu.Unlock()

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	s.mu.Lock()
	fmt.Fprint(s.writer, "\r\033[K")
	s.mu.Unlock()
}

// SetMessage changes the spinner text.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}
