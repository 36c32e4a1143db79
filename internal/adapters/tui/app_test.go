package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"vired/internal/adapters/filesystem"
	"vired/internal/adapters/tui/views"
	"vired/internal/application"
	"vired/internal/config"
	"vired/internal/domain"
	"vired/internal/logging"
)

func init() {
	logging.InitNop()
}

type testApp struct {
	*App
	lister *filesystem.Lister
	dir    string
}

func newTestApp(t *testing.T, files ...string) *testApp {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "work")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range files {
		path := filepath.Join(dir, name)
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	fs := afero.NewOsFs()
	lister := filesystem.NewLister(fs)
	sessions := application.NewSessionManager(application.SessionConfig{
		Fs:          fs,
		Lister:      lister,
		Trash:       filesystem.NewTrash(fs, filepath.Join(base, "trash")),
		Layout:      domain.ColumnLayout{},
		HeaderLines: application.DefaultHeaderLines,
		HistoryMax:  application.MaxHistory,
	})

	a, err := NewApp(Deps{
		Sessions:  sessions,
		Refresher: application.NewRefresher(lister, nil, 0),
		Hidden:    lister,
		Keymap:    config.DefaultKeymap(),
		Layout:    domain.ColumnLayout{},
	}, dir)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(a.Close)

	ta := &testApp{App: a, lister: lister, dir: dir}
	ta.load(t)
	return ta
}

// step delivers msg and runs the command it returns once
func (a *testApp) step(t *testing.T, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := a.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func (a *testApp) load(t *testing.T) {
	t.Helper()
	a.Update(a.refresh()())
}

// edit enters edit mode and returns the buffer
func (a *testApp) edit(t *testing.T) []string {
	t.Helper()
	started := a.step(t, views.BeginEditMsg{})
	a.Update(started)
	if a.State() != ViewEditor {
		t.Fatalf("expected editor, got state %d", a.State())
	}
	return a.editor.Lines()
}

func TestApp_EditPreviewCommit(t *testing.T) {
	a := newTestApp(t, "a.txt", "b.txt")
	lines := a.edit(t)

	for i, l := range lines {
		if l == "a.txt" {
			lines[i] = "renamed.txt"
		}
	}
	a.Update(views.PreviewMsg{Lines: lines})
	if a.State() != ViewPreview {
		t.Fatalf("expected preview, got state %d", a.State())
	}

	done := a.step(t, views.CommitMsg{Lines: lines})
	if _, ok := done.(views.CommitDoneMsg); !ok {
		t.Fatalf("expected CommitDoneMsg, got %#v", done)
	}
	listing := a.step(t, done)
	a.Update(listing)

	if a.State() != ViewBrowser {
		t.Errorf("expected browser after commit, got state %d", a.State())
	}
	if _, err := os.Stat(filepath.Join(a.dir, "renamed.txt")); err != nil {
		t.Errorf("expected renamed.txt: %v", err)
	}
	if !a.browser.Select("renamed.txt") {
		t.Error("expected listing to show renamed.txt")
	}
	if !strings.Contains(a.browser.View(), "Rename a.txt → renamed.txt") {
		t.Errorf("expected undo hint in browser:\n%s", a.browser.View())
	}
}

func TestApp_UnchangedBufferLeavesEditMode(t *testing.T) {
	a := newTestApp(t, "a.txt")
	lines := a.edit(t)

	a.step(t, views.PreviewMsg{Lines: lines})
	if a.State() != ViewBrowser {
		t.Fatalf("expected browser, got state %d", a.State())
	}
	if a.browser.Message != "No changes" {
		t.Errorf("expected 'No changes', got %q", a.browser.Message)
	}
	info, err := a.deps.Sessions.Info(a.handle)
	if err != nil {
		t.Fatal(err)
	}
	if info.Editing {
		t.Error("expected session to leave edit mode")
	}
}

func TestApp_CancelEdit(t *testing.T) {
	a := newTestApp(t, "a.txt")
	lines := a.edit(t)
	lines = lines[:1]

	a.Update(views.PreviewMsg{Lines: lines})
	a.Update(views.BackToEditorMsg{})
	if a.State() != ViewEditor {
		t.Fatalf("expected editor, got state %d", a.State())
	}

	a.step(t, views.CancelEditMsg{})
	if a.State() != ViewBrowser {
		t.Errorf("expected browser, got state %d", a.State())
	}
	if _, err := os.Stat(filepath.Join(a.dir, "a.txt")); err != nil {
		t.Errorf("expected a.txt untouched: %v", err)
	}
}

func TestApp_UndoRedo(t *testing.T) {
	a := newTestApp(t, "a.txt")
	lines := a.edit(t)
	lines = lines[:1]
	a.Update(views.PreviewMsg{Lines: lines})
	a.Update(a.step(t, views.CommitMsg{Lines: lines}))

	if _, err := os.Stat(filepath.Join(a.dir, "a.txt")); !os.IsNotExist(err) {
		t.Fatal("expected a.txt to be trashed")
	}

	a.Update(a.step(t, views.UndoMsg{}))
	if _, err := os.Stat(filepath.Join(a.dir, "a.txt")); err != nil {
		t.Errorf("expected undo to restore a.txt: %v", err)
	}
	if !strings.HasPrefix(a.browser.Message, "Undid: Delete") {
		t.Errorf("unexpected message %q", a.browser.Message)
	}

	a.Update(a.step(t, views.UndoMsg{Redo: true}))
	if _, err := os.Stat(filepath.Join(a.dir, "a.txt")); !os.IsNotExist(err) {
		t.Error("expected redo to trash a.txt again")
	}

	a.Update(a.step(t, views.UndoMsg{Redo: true}))
	if a.browser.Message != "Nothing to redo" {
		t.Errorf("expected 'Nothing to redo', got %q", a.browser.Message)
	}
}

func TestApp_ChangeDirSelectsPrevious(t *testing.T) {
	a := newTestApp(t, "a.txt", "sub/", "zz/")
	sub := filepath.Join(a.dir, "sub")

	a.Update(a.step(t, views.ChangeDirMsg{Dir: sub}))
	if a.Dir() != sub {
		t.Fatalf("expected dir %s, got %s", sub, a.Dir())
	}

	a.Update(a.step(t, views.ChangeDirMsg{Dir: a.dir, From: sub}))
	if a.Dir() != a.dir {
		t.Fatalf("expected dir %s, got %s", a.dir, a.Dir())
	}
	if e, ok := a.browser.Selected(); !ok || e.Name != "sub" {
		t.Errorf("expected cursor on sub, got %q", e.Name)
	}
}

func TestApp_ChangeDirToFileFails(t *testing.T) {
	a := newTestApp(t, "a.txt")
	a.Update(views.ChangeDirMsg{Dir: filepath.Join(a.dir, "a.txt")})

	if a.Dir() != a.dir {
		t.Errorf("expected to stay in %s, got %s", a.dir, a.Dir())
	}
	if !a.browser.MessageErr {
		t.Error("expected an error message")
	}
}

func TestApp_ToggleHidden(t *testing.T) {
	a := newTestApp(t, "a.txt", ".hidden")
	if a.browser.Select(".hidden") {
		t.Fatal("expected .hidden to be filtered")
	}

	a.Update(a.step(t, views.ToggleHiddenMsg{}))
	if !a.lister.ShowHidden() {
		t.Error("expected lister to show hidden files")
	}
	if !a.browser.Select(".hidden") {
		t.Error("expected .hidden in listing")
	}
}

func TestApp_StaleListingIgnored(t *testing.T) {
	a := newTestApp(t, "a.txt")

	first := a.refresh()
	if err := os.WriteFile(filepath.Join(a.dir, "b.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	second := a.refresh()

	a.Update(second())
	a.Update(first())
	if !a.browser.Select("b.txt") {
		t.Error("expected the newer listing to win")
	}
}

func TestApp_HelpRoundTrip(t *testing.T) {
	a := newTestApp(t)
	a.Update(views.SwitchToHelpMsg{})
	if a.State() != ViewHelp {
		t.Fatalf("expected help, got state %d", a.State())
	}
	if !strings.Contains(a.View(), "vired help") {
		t.Error("expected help view")
	}
	a.Update(a.step(t, tea.KeyMsg{Type: tea.KeyEsc}))
	if a.State() != ViewBrowser {
		t.Errorf("expected browser, got state %d", a.State())
	}
}
