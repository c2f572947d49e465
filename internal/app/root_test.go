package app

import (
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "modsnap" {
		t.Errorf("expected Use to be 'modsnap', got '%s'", RootCmd.Use)
	}
	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	expected := []string{"scan", "diff", "history", "show", "profiles", "pack-version", "watch", "doctor", "status", "init"}

	found := make(map[string]bool)
	for _, cmd := range RootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected command '%s' to be registered", name)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	for _, name := range []string{"db", "config", "verbose"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag to be registered", name)
			continue
		}
		if flag.Usage == "" {
			t.Errorf("expected --%s flag to have usage text", name)
		}
	}
}

func TestCommandsHaveDescriptions(t *testing.T) {
	for _, cmd := range RootCmd.Commands() {
		if cmd.Short == "" {
			t.Errorf("command %q has no Short description", cmd.Name())
		}
		if cmd.RunE == nil && !cmd.HasSubCommands() && cmd.Name() != "help" && cmd.Name() != "completion" {
			t.Errorf("command %q has no RunE", cmd.Name())
		}
	}
}

func TestGetDBPath(t *testing.T) {
	tmp := setupTestEnv(t)

	tests := []struct {
		name       string
		dbPathFlag string
		want       string
	}{
		{
			name:       "default path",
			dbPathFlag: "",
			want:       filepath.Join(tmp, "config", "modsnap", "modsnap.db"),
		},
		{
			name:       "custom path",
			dbPathFlag: "/tmp/test.db",
			want:       "/tmp/test.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath = tt.dbPathFlag

			got, err := getDBPath()
			if err != nil {
				t.Fatalf("getDBPath() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("getDBPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	tmp := setupTestEnv(t)

	got, err := getConfigPath()
	if err != nil {
		t.Fatalf("getConfigPath() error: %v", err)
	}
	if want := filepath.Join(tmp, "config", "modsnap", "config.yaml"); got != want {
		t.Errorf("getConfigPath() = %q, want %q", got, want)
	}

	configPath = "/etc/modsnap.yaml"
	if got, _ := getConfigPath(); got != "/etc/modsnap.yaml" {
		t.Errorf("getConfigPath() with flag = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	if l := newLogger(false); l.GetLevel() != log.InfoLevel {
		t.Errorf("default logger level = %v, want info", l.GetLevel())
	}
	if l := newLogger(true); l.GetLevel() != log.DebugLevel {
		t.Errorf("verbose logger level = %v, want debug", l.GetLevel())
	}
}
