package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgressBar_NonTTYWritesOnlyFinalLine(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(3, "Scanned")
	p.SetWriter(buf)

	p.Update(1, 3, "a.jar")
	p.Update(2, 3, "b.jar")
	if buf.Len() != 0 {
		t.Errorf("Update() should not write to a non-terminal, got: %q", buf.String())
	}

	p.Finish()
	output := buf.String()

	if !strings.Contains(output, "3/3") {
		t.Errorf("final line should show 3/3, got: %q", output)
	}
	if !strings.Contains(output, "Scanned") {
		t.Errorf("final line should show the label, got: %q", output)
	}
	if strings.Contains(output, "\r") {
		t.Errorf("non-terminal output should not contain carriage returns, got: %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("final line should end with a newline, got: %q", output)
	}
}

func TestProgressBar_Line(t *testing.T) {
	tests := []struct {
		name     string
		done     int
		total    int
		contains string
		equals   int
	}{
		{"start", 0, 10, "0/10", 0},
		{"half", 5, 10, "5/10", 14},
		{"complete", 10, 10, "10/10", 30},
		{"clamped", 12, 10, "10/10", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgress(tt.total, "x")
			p.SetWriter(&bytes.Buffer{})
			p.Update(tt.done, tt.total, "item.jar")

			line := p.line("item.jar")
			if !strings.Contains(line, tt.contains) {
				t.Errorf("line() = %q, want it to contain %q", line, tt.contains)
			}
			if got := strings.Count(line, "="); got != tt.equals {
				t.Errorf("line() has %d '=' characters, want %d: %q", got, tt.equals, line)
			}
			if !strings.HasPrefix(line, "[") || !strings.Contains(line, "]") {
				t.Errorf("line() should be bracketed, got %q", line)
			}
		})
	}
}

func TestProgressBar_EmptyScan(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(0, "Scanned")
	p.SetWriter(buf)
	p.Finish()

	if !strings.Contains(buf.String(), "0/0") {
		t.Errorf("expected 0/0, got %q", buf.String())
	}
}

func TestSpinner_NonTTY(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Watching")
	s.SetWriter(buf)

	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.SetMessage("Still watching")
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner should stay silent on a non-terminal, got %q", buf.String())
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	s := NewSpinner("idle")
	s.SetWriter(&bytes.Buffer{})
	s.Stop()
	s.Stop()
}
