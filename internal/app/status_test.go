package app

import (
	"context"
	"strings"
	"testing"

	"github.com/blackwell-systems/modsnap/internal/config"
)

func TestStatusCommand(t *testing.T) {
	if statusCmd.Use != "status" {
		t.Errorf("expected Use to be 'status', got '%s'", statusCmd.Use)
	}
	if statusCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if statusCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}
}

func TestRunStatus_NoDatabase(t *testing.T) {
	setupTestEnv(t)

	var runErr error
	out := captureStdout(t, func() {
		runErr = runStatus(statusCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("runStatus() error: %v", runErr)
	}
	if !strings.Contains(out, "stopped") {
		t.Errorf("output should report the daemon stopped:\n%s", out)
	}
	if !strings.Contains(out, "none yet") {
		t.Errorf("output should report no database:\n%s", out)
	}
}

func TestRunStatus_WithSnapshots(t *testing.T) {
	tmp := setupTestEnv(t)
	mods := setupProfile(t, tmp, "pack")

	st, err := openStore()
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	mgr := newManager(st, config.DefaultSettings())
	for _, version := range []string{"1.0", "1.1"} {
		if _, err := performScan(context.Background(), mgr, scanOptions{ModsDir: mods, PackVersion: version}); err != nil {
			st.Close()
			t.Fatalf("performScan: %v", err)
		}
	}
	st.Close()

	var runErr error
	out := captureStdout(t, func() {
		runErr = runStatus(statusCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("runStatus() error: %v", runErr)
	}
	if !strings.Contains(out, "2 in 1 directory") {
		t.Errorf("output missing snapshot count:\n%s", out)
	}
	if !strings.Contains(out, mods) {
		t.Errorf("output missing source directory %s:\n%s", mods, out)
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "y", "ies"); got != "y" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(0, "y", "ies"); got != "ies" {
		t.Errorf("plural(0) = %q", got)
	}
}
