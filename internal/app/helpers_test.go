package app

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/modsnap/internal/snapshots"
	"github.com/blackwell-systems/modsnap/internal/store"
)

// setupTestEnv points the config directory, database and config file at a
// temp dir for the duration of the test.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))

	oldDB, oldConfig := dbPath, configPath
	dbPath = filepath.Join(tmp, "modsnap.db")
	configPath = ""
	t.Cleanup(func() {
		dbPath, configPath = oldDB, oldConfig
	})
	return tmp
}

// writeModJar creates a mod archive at dir/name with a fabric.mod.json.
func writeModJar(t *testing.T, dir, name, descriptor string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("fabric.mod.json")
	if err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}
	if _, err := w.Write([]byte(descriptor)); err != nil {
		t.Fatalf("failed to write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write jar: %v", err)
	}
}

// setupProfile builds <root>/<folder>/mods with two mods.
func setupProfile(t *testing.T, root, folder string) string {
	t.Helper()
	mods := filepath.Join(root, folder, "mods")
	if err := os.MkdirAll(mods, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	writeModJar(t, mods, "sodium.jar", `{"id": "sodium", "name": "Sodium", "version": "0.5.8"}`)
	writeModJar(t, mods, "lithium.jar", `{"id": "lithium", "name": "Lithium", "version": "0.12.0"}`)
	return mods
}

func newTestManager(t *testing.T) *snapshots.Manager {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		t.Fatalf("CreateSchema: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return snapshots.New(st, "")
}

// captureStdout replaces os.Stdout with a pipe during f(), then restores it
// and returns all bytes written to stdout.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		buf.ReadFrom(r)
		done <- buf.String()
	}()

	f()

	w.Close()
	return <-done
}
