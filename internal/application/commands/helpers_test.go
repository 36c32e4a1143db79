package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"vired/internal/adapters/filesystem"
	"vired/internal/application"
	"vired/internal/domain"
	"vired/internal/logging"
)

func init() {
	logging.InitNop()
}

type testEnv struct {
	sessions *application.SessionManager
	trash    *filesystem.Trash
	dir      string
}

func setupEnv(t *testing.T, files ...string) *testEnv {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "work")

	for _, name := range files {
		path := filepath.Join(dir, name)
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("failed to create dir: %v", err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create parent: %v", err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}
	os.MkdirAll(dir, 0o755)

	fs := afero.NewOsFs()
	trash := filesystem.NewTrash(fs, filepath.Join(base, "trash"))
	sessions := application.NewSessionManager(application.SessionConfig{
		Fs:          fs,
		Lister:      filesystem.NewLister(fs),
		Trash:       trash,
		Layout:      domain.ColumnLayout{},
		HeaderLines: application.DefaultHeaderLines,
		HistoryMax:  application.MaxHistory,
	})
	return &testEnv{sessions: sessions, trash: trash, dir: dir}
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
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
		t.Errorf("expected %s to be missing", path)
	}
}
