package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TrashDir != "/data/vired/trash" {
		t.Errorf("expected default trash dir, got %s", cfg.TrashDir)
	}
	if !cfg.Layout.Permissions || !cfg.Layout.Size || !cfg.Layout.ModTime {
		t.Errorf("expected every column by default, got %+v", cfg.Layout)
	}
	if cfg.HistoryMax != 100 {
		t.Errorf("expected history.max 100, got %d", cfg.HistoryMax)
	}
	if cfg.VCSTimeout != 5*time.Second {
		t.Errorf("expected 5s vcs timeout, got %s", cfg.VCSTimeout)
	}
	if cfg.WatchDebounce != 150*time.Millisecond {
		t.Errorf("expected 150ms debounce, got %s", cfg.WatchDebounce)
	}
	if cfg.File != "" {
		t.Errorf("expected no config file, got %s", cfg.File)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[trash]
dir = "/tmp/vired-trash"
index = false

[listing]
columns = ["size"]
show_hidden = true

[history]
max = 7

[keymap]
undo = ["z"]
quit = "x"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TrashDir != "/tmp/vired-trash" || cfg.TrashIndex {
		t.Errorf("unexpected trash config: %s index=%v", cfg.TrashDir, cfg.TrashIndex)
	}
	if cfg.Layout.Permissions || !cfg.Layout.Size || cfg.Layout.ModTime {
		t.Errorf("expected size only, got %+v", cfg.Layout)
	}
	if !cfg.ShowHidden {
		t.Error("expected show_hidden")
	}
	if cfg.HistoryMax != 7 {
		t.Errorf("expected history.max 7, got %d", cfg.HistoryMax)
	}
	if a, ok := cfg.Keymap.Resolve("z"); !ok || a != ActionUndo {
		t.Errorf("expected z bound to undo, got %v %v", a, ok)
	}
	if _, ok := cfg.Keymap.Resolve("u"); ok {
		t.Error("default undo key should be replaced")
	}
	if a, ok := cfg.Keymap.Resolve("x"); !ok || a != ActionQuit {
		t.Errorf("expected x bound to quit, got %v %v", a, ok)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("VIRED_HISTORY_MAX", "12")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HistoryMax != 12 {
		t.Errorf("expected env override 12, got %d", cfg.HistoryMax)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown column", "[listing]\ncolumns = [\"owner\"]\n"},
		{"unknown action", "[keymap]\nlaunch = \"l\"\n"},
		{"conflicting keys", "[keymap]\nundo = \"q\"\n"},
		{"non-positive history", "[history]\nmax = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestKeymap_Defaults(t *testing.T) {
	km := DefaultKeymap()
	for _, a := range Actions {
		if len(km.Keys(a)) == 0 {
			t.Errorf("action %s has no default keys", a)
		}
		for _, k := range km.Keys(a) {
			if got, ok := km.Resolve(k); !ok || got != a {
				t.Errorf("key %q resolves to %v, want %s", k, got, a)
			}
		}
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Toggle_Hidden ")
	if err != nil || a != ActionToggleHidden {
		t.Errorf("expected toggle_hidden, got %v (%v)", a, err)
	}
	if _, err := ParseAction("fly"); err == nil {
		t.Error("expected error for unknown action")
	}
}
