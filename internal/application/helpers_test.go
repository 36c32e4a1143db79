package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"vired/internal/domain"
	"vired/internal/logging"
	"vired/internal/ports"
)

func init() {
	logging.InitNop()
}

// dirTrash is a minimal trash store over a real directory
type dirTrash struct {
	root string
	mu   sync.Mutex
	n    int
}

func (d *dirTrash) MoveToTrash(path string) (string, error) {
	d.mu.Lock()
	d.n++
	n := d.n
	d.mu.Unlock()

	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", err
	}
	trashPath := filepath.Join(d.root, fmt.Sprintf("%s.%d", filepath.Base(path), n))
	return trashPath, os.Rename(path, trashPath)
}

func (d *dirTrash) RestoreFromTrash(trashPath, originalPath string) error {
	if _, err := os.Lstat(trashPath); err != nil {
		return ports.ErrTrashEntryMissing
	}
	if _, err := os.Lstat(originalPath); err == nil {
		return ports.ErrDestinationOccupied
	}
	return os.Rename(trashPath, originalPath)
}

func (d *dirTrash) Exists(trashPath string) bool {
	_, err := os.Lstat(trashPath)
	return err == nil
}

func (d *dirTrash) Root() string {
	return d.root
}

// osLister lists a directory in name order
type osLister struct{}

func (osLister) List(ctx context.Context, dir string) ([]domain.DirectoryEntry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var entries []domain.DirectoryEntry
	for _, item := range items {
		info, err := item.Info()
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.DirectoryEntry{
			Name:    item.Name(),
			Path:    filepath.Join(dir, item.Name()),
			Kind:    domain.KindFromMode(info.Mode()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		})
	}
	return entries, nil
}

// fakeVCS treats every path under root as tracked and records calls
type fakeVCS struct {
	root    string
	moves   []string
	removes []string
	failMv  bool
}

func (f *fakeVCS) IsTracked(_ context.Context, path string) (bool, error) {
	return strings.HasPrefix(path, f.root), nil
}

func (f *fakeVCS) Root(_ context.Context, _ string) (string, error) {
	return f.root, nil
}

func (f *fakeVCS) Move(_ context.Context, _, src, dst string) error {
	if f.failMv {
		return fmt.Errorf("not under version control")
	}
	f.moves = append(f.moves, src+"->"+dst)
	return os.Rename(src, dst)
}

func (f *fakeVCS) Remove(_ context.Context, _, path string) error {
	f.removes = append(f.removes, path)
	return nil
}

type testEnv struct {
	dir   string
	trash *dirTrash
	log   *UndoLog
	ops   *FileOps
	fs    afero.Fs
}

func setupEnv(t *testing.T, opts ...FileOpsOption) *testEnv {
	t.Helper()

	base := t.TempDir()
	dir := filepath.Join(base, "work")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("failed to create work dir: %v", err)
	}

	fs := afero.NewOsFs()
	trash := &dirTrash{root: filepath.Join(base, "trash")}
	log := NewUndoLog(fs, trash, 0)
	return &testEnv{
		dir:   dir,
		trash: trash,
		log:   log,
		ops:   NewFileOps(fs, trash, log, opts...),
		fs:    fs,
	}
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be gone, got err=%v", path, err)
	}
}
