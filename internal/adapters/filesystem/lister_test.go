package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"vired/internal/domain"
	"vired/internal/logging"
)

func init() {
	logging.InitNop()
}

func setupDir(t *testing.T, files map[string]string, dirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create parent: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}
	return root
}

func names(entries []domain.DirectoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestLister_Ordering(t *testing.T) {
	root := setupDir(t, map[string]string{
		"b.txt":  "b",
		"A.txt":  "a",
		"c.md":   "c",
		"zz/x":   "x",
		"Docs/y": "y",
	})

	entries, err := NewLister(afero.NewOsFs()).List(context.Background(), root)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"Docs", "zz", "A.txt", "b.txt", "c.md"}
	got := names(entries)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if entries[0].Kind != domain.KindDirectory {
		t.Errorf("expected Docs to be a directory, got %s", entries[0].Kind)
	}
	if entries[2].Path != filepath.Join(root, "A.txt") {
		t.Errorf("unexpected path %s", entries[2].Path)
	}
	if entries[2].Size != 1 {
		t.Errorf("expected size 1, got %d", entries[2].Size)
	}
}

func TestLister_HiddenFiles(t *testing.T) {
	root := setupDir(t, map[string]string{
		".env":    "secret",
		"main.go": "package main",
	})

	tests := []struct {
		name string
		opts []ListerOption
		want int
	}{
		{"hidden skipped by default", nil, 1},
		{"hidden included", []ListerOption{WithHidden(true)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := NewLister(afero.NewOsFs(), tt.opts...).List(context.Background(), root)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(entries) != tt.want {
				t.Errorf("expected %d entries, got %v", tt.want, names(entries))
			}
		})
	}
}

func TestLister_Symlink(t *testing.T) {
	root := setupDir(t, map[string]string{"target.txt": "data"})
	if err := os.Symlink("target.txt", filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	entries, err := NewLister(afero.NewOsFs()).List(context.Background(), root)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var link *domain.DirectoryEntry
	for i := range entries {
		if entries[i].Name == "link" {
			link = &entries[i]
		}
	}
	if link == nil {
		t.Fatalf("link not listed: %v", names(entries))
	}
	if link.Kind != domain.KindSymlink {
		t.Errorf("expected symlink kind, got %s", link.Kind)
	}
	if link.LinkTarget != "target.txt" {
		t.Errorf("expected link target target.txt, got %q", link.LinkTarget)
	}
}

func TestLister_MissingDirectory(t *testing.T) {
	_, err := NewLister(afero.NewOsFs()).List(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLister_CancelledContext(t *testing.T) {
	root := setupDir(t, map[string]string{"a": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLister(afero.NewOsFs()).List(ctx, root); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/trash", filepath.Join(home, "trash")},
		{"/abs/path", "/abs/path"},
		{"~other", "~other"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLister_SetShowHidden(t *testing.T) {
	root := setupDir(t, map[string]string{".git/HEAD": "ref", "a": "a"})
	l := NewLister(afero.NewOsFs())

	entries, _ := l.List(context.Background(), root)
	if len(entries) != 1 {
		t.Fatalf("expected hidden entries skipped, got %v", names(entries))
	}

	l.SetShowHidden(true)
	if !l.ShowHidden() {
		t.Error("expected ShowHidden to report true")
	}
	entries, _ = l.List(context.Background(), root)
	if len(entries) != 2 || entries[0].Name != ".git" {
		t.Errorf("expected .git first, got %v", names(entries))
	}
}
