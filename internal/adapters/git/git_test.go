package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func newTempGitRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	gitCmd(t, dir, "init", "-q")
	gitCmd(t, dir, "config", "user.name", "Test User")
	gitCmd(t, dir, "config", "user.email", "test@example.com")

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test Repository\n"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	gitCmd(t, dir, "add", ".")
	gitCmd(t, dir, "commit", "-q", "-m", "Initial commit")
	return dir
}

func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func TestIsTracked(t *testing.T) {
	repo := newTempGitRepo(t)
	g := New()
	ctx := context.Background()

	tracked, err := g.IsTracked(ctx, filepath.Join(repo, "README.md"))
	if err != nil || !tracked {
		t.Errorf("expected README.md inside the repository, got %v (%v)", tracked, err)
	}

	tracked, err = g.IsTracked(ctx, filepath.Join(repo, "not", "yet", "created"))
	if err != nil || !tracked {
		t.Errorf("expected a missing path inside the repository to resolve, got %v (%v)", tracked, err)
	}

	outside := t.TempDir()
	tracked, err = g.IsTracked(ctx, outside)
	if err != nil {
		t.Fatalf("IsTracked failed: %v", err)
	}
	if tracked {
		t.Skip("temp directory is itself inside a git repository")
	}
}

func TestRoot(t *testing.T) {
	repo := newTempGitRepo(t)
	sub := filepath.Join(repo, "docs")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	root, err := New().Root(context.Background(), sub)
	if err != nil {
		t.Fatalf("Root failed: %v", err)
	}

	want, _ := filepath.EvalSymlinks(repo)
	got, _ := filepath.EvalSymlinks(root)
	if got != want {
		t.Errorf("expected root %s, got %s", want, got)
	}
}

func TestMove(t *testing.T) {
	repo := newTempGitRepo(t)
	g := New()
	ctx := context.Background()

	src := filepath.Join(repo, "README.md")
	dst := filepath.Join(repo, "INTRO.md")
	if err := g.Move(ctx, repo, src, dst); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if _, err := os.Stat(dst); err != nil {
		t.Errorf("expected %s on disk: %v", dst, err)
	}
	files := gitCmd(t, repo, "ls-files")
	if !strings.Contains(files, "INTRO.md") || strings.Contains(files, "README.md") {
		t.Errorf("expected index to follow the move, got %q", files)
	}
}

func TestMove_UntrackedFails(t *testing.T) {
	repo := newTempGitRepo(t)
	src := filepath.Join(repo, "scratch.txt")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New().Move(context.Background(), repo, src, filepath.Join(repo, "notes.txt"))
	if err == nil {
		t.Fatal("expected git mv of an untracked file to fail")
	}
	if !strings.Contains(err.Error(), "git mv") {
		t.Errorf("expected git stderr in error, got %v", err)
	}
}

func TestRemove_KeepsWorkingTree(t *testing.T) {
	repo := newTempGitRepo(t)
	path := filepath.Join(repo, "README.md")

	if err := New().Remove(context.Background(), repo, path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file kept on disk: %v", err)
	}
	if files := gitCmd(t, repo, "ls-files"); strings.Contains(files, "README.md") {
		t.Errorf("expected README.md untracked, got %q", files)
	}
}

func TestRemove_UntrackedIsNoop(t *testing.T) {
	repo := newTempGitRepo(t)
	if err := New().Remove(context.Background(), repo, filepath.Join(repo, "never-added.txt")); err != nil {
		t.Errorf("expected --ignore-unmatch to make this a no-op, got %v", err)
	}
}
