package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"vired/internal/domain"
)

type recordingSuppressor struct {
	mu      sync.Mutex
	calls   []string
	resumed int
}

func (r *recordingSuppressor) Suppress(dir string) func() {
	r.mu.Lock()
	r.calls = append(r.calls, dir)
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.resumed++
		r.mu.Unlock()
	}
}

func setupSessions(t *testing.T) (*SessionManager, string, *recordingSuppressor) {
	t.Helper()

	base := t.TempDir()
	dir := filepath.Join(base, "work")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeFile(t, filepath.Join(dir, name), name)
	}

	sup := &recordingSuppressor{}
	m := NewSessionManager(SessionConfig{
		Fs:          afero.NewOsFs(),
		Lister:      osLister{},
		Trash:       &dirTrash{root: filepath.Join(base, "trash")},
		Suppressor:  sup,
		Layout:      domain.DefaultLayout(),
		HeaderLines: DefaultHeaderLines,
	})
	return m, dir, sup
}

func TestSessionManager_OpenReusesHandle(t *testing.T) {
	m, dir, _ := setupSessions(t)

	first, err := m.Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	second, err := m.Open(dir + "/")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if first != second {
		t.Errorf("expected one session per directory, got %s and %s", first, second)
	}
	if len(m.Sessions()) != 1 {
		t.Errorf("expected 1 session, got %d", len(m.Sessions()))
	}
}

func TestSessionManager_OpenRejectsFile(t *testing.T) {
	m, dir, _ := setupSessions(t)

	_, err := m.Open(filepath.Join(dir, "a.txt"))
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSessionManager_CommitEdit(t *testing.T) {
	m, dir, sup := setupSessions(t)
	ctx := context.Background()

	handle, _ := m.Open(dir)
	lines, err := m.BeginEdit(ctx, handle)
	if err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if len(lines) != 4 || lines[0] != dir+":" {
		t.Fatalf("unexpected buffer: %q", lines)
	}

	lines[2] = "b2.txt"
	lines[3] = ""
	lines = append(lines, "d.txt")

	preview, err := m.Preview(handle, lines)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	want := []domain.OpKind{domain.OpRename, domain.OpDelete, domain.OpCreate}
	if len(preview.Ops) != len(want) {
		t.Fatalf("expected %d operations, got %v", len(want), preview.Ops)
	}
	for i, k := range want {
		if preview.Ops[i].Kind != k {
			t.Errorf("op %d: expected %s, got %s", i, k, preview.Ops[i].Kind)
		}
	}
	if len(preview.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", preview.Warnings)
	}

	result, err := m.Commit(ctx, handle, lines)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if len(result.Succeeded) != 3 {
		t.Fatalf("expected 3 successes, got %s", result.Summary())
	}

	assertExists(t, filepath.Join(dir, "b2.txt"))
	assertMissing(t, filepath.Join(dir, "c.txt"))
	assertExists(t, filepath.Join(dir, "d.txt"))

	if len(sup.calls) != 1 || sup.calls[0] != dir || sup.resumed != 1 {
		t.Errorf("expected one suppress/resume around the commit, got %v resumed=%d", sup.calls, sup.resumed)
	}

	info, _ := m.Info(handle)
	if info.Editing {
		t.Error("expected edit mode to end after commit")
	}
	if info.Undo != 3 {
		t.Errorf("expected 3 undo entries, got %d", info.Undo)
	}
}

func TestSessionManager_RejectsReentry(t *testing.T) {
	m, dir, _ := setupSessions(t)
	ctx := context.Background()
	handle, _ := m.Open(dir)

	if _, err := m.BeginEdit(ctx, handle); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if _, err := m.BeginEdit(ctx, handle); !errors.Is(err, ErrAlreadyEditing) {
		t.Errorf("expected ErrAlreadyEditing, got %v", err)
	}
	if _, err := m.Undo(ctx, handle); !errors.Is(err, ErrAlreadyEditing) {
		t.Errorf("expected undo to be refused while editing, got %v", err)
	}
}

func TestSessionManager_CancelLeavesFilesystem(t *testing.T) {
	m, dir, _ := setupSessions(t)
	ctx := context.Background()
	handle, _ := m.Open(dir)

	lines, _ := m.BeginEdit(ctx, handle)
	lines = lines[:1]

	if err := m.Cancel(handle); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		assertExists(t, filepath.Join(dir, name))
	}

	if _, err := m.Commit(ctx, handle, lines); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing after cancel, got %v", err)
	}
	if err := m.Cancel(handle); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing on second cancel, got %v", err)
	}
}

func TestSessionManager_SnapshotIgnoresLaterDiskChanges(t *testing.T) {
	m, dir, _ := setupSessions(t)
	ctx := context.Background()
	handle, _ := m.Open(dir)

	lines, _ := m.BeginEdit(ctx, handle)
	writeFile(t, filepath.Join(dir, "late.txt"), "late")

	preview, err := m.Preview(handle, lines)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if !preview.Empty() {
		t.Errorf("expected untouched buffer to diff empty, got %v", preview.Ops)
	}
}

func TestSessionManager_UndoAfterCommit(t *testing.T) {
	m, dir, _ := setupSessions(t)
	ctx := context.Background()
	handle, _ := m.Open(dir)

	lines, _ := m.BeginEdit(ctx, handle)
	lines[1] = "renamed.txt"
	if _, err := m.Commit(ctx, handle, lines); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	op, err := m.Undo(ctx, handle)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if op.Kind != domain.UndoRename {
		t.Errorf("expected rename undo, got %s", op.Kind)
	}
	assertExists(t, filepath.Join(dir, "a.txt"))

	if _, err := m.Redo(ctx, handle); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	assertExists(t, filepath.Join(dir, "renamed.txt"))
}

func TestSessionManager_UnknownHandle(t *testing.T) {
	m, _, _ := setupSessions(t)

	if _, err := m.BeginEdit(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Close("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManager_CloseForgetsDirectory(t *testing.T) {
	m, dir, _ := setupSessions(t)
	first, _ := m.Open(dir)
	if err := m.Close(first); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	second, _ := m.Open(dir)
	if first == second {
		t.Error("expected a fresh session after close")
	}
}
