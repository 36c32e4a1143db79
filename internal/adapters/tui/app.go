package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"vired/internal/adapters/tui/views"
	"vired/internal/application"
	"vired/internal/config"
	"vired/internal/domain"
	"vired/internal/logging"
	"vired/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewEditor
	ViewPreview
	ViewHelp
)

// HiddenToggle switches dot files in listings on and off
type HiddenToggle interface {
	ShowHidden() bool
	SetShowHidden(show bool)
}

// Deps wires the App to the core. Notifier, Editor and Hidden are optional.
type Deps struct {
	Sessions  *application.SessionManager
	Refresher *application.Refresher
	Notifier  ports.ChangeNotifier
	Editor    ports.EditorOpener
	Hidden    HiddenToggle
	Keymap    *config.Keymap
	Layout    domain.ColumnLayout
}

// App is the main TUI application model
type App struct {
	deps   Deps
	logger *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	changes <-chan ports.ChangeEvent

	handle string
	dir    string
	// name to put the cursor on once the next listing arrives
	selectAfter string

	state   ViewState
	browser *views.BrowserModel
	editor  *views.EditorModel
	preview *views.PreviewModel
	help    *views.HelpModel
}

// NewApp creates a new TUI application browsing startDir
func NewApp(deps Deps, startDir string) (*App, error) {
	keys := views.NewKeys(deps.Keymap)
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		deps:    deps,
		logger:  logging.Named("tui"),
		ctx:     ctx,
		cancel:  cancel,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(keys, deps.Layout),
		editor:  views.NewEditorModel(keys),
		preview: views.NewPreviewModel(keys),
		help:    views.NewHelpModel(keys),
	}

	if err := a.open(startDir); err != nil {
		cancel()
		return nil, err
	}
	if deps.Notifier != nil {
		a.changes = deps.Notifier.Subscribe()
	}
	return a, nil
}

// Close releases background work started by the App
func (a *App) Close() {
	a.cancel()
	a.deps.Refresher.Stop()
	if a.deps.Notifier != nil {
		a.deps.Notifier.Unwatch(a.dir)
		a.deps.Notifier.Unsubscribe(a.changes)
	}
}

// Run starts the program on the alternate screen and blocks until it exits
func Run(a *App) error {
	defer a.Close()
	_, err := tea.NewProgram(a, tea.WithAltScreen()).Run()
	return err
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Dir returns the directory being browsed
func (a *App) Dir() string {
	return a.dir
}

type listingMsg struct {
	res application.RefreshResult
}

type changeMsg struct {
	ev ports.ChangeEvent
	ok bool
}

type editStartedMsg struct {
	lines []string
	err   error
}

type undoDoneMsg struct {
	op   domain.UndoOperation
	redo bool
	err  error
}

type editorFinishedMsg struct{ err error }

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.refresh(), a.waitForChange())
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.browser.SetSize(msg.Width, msg.Height)
		a.editor.SetSize(msg.Width, msg.Height)
		a.preview.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

	case listingMsg:
		a.applyListing(msg.res)
		return a, nil

	case changeMsg:
		if !msg.ok {
			return a, nil
		}
		if msg.ev.Dir != a.dir {
			return a, a.waitForChange()
		}
		if a.state == ViewEditor || a.state == ViewPreview {
			a.editor.SetMessage("Directory changed on disk since editing began", true)
			return a, a.waitForChange()
		}
		return a, tea.Batch(a.refresh(), a.waitForChange())

	case views.ChangeDirMsg:
		if err := a.changeDir(msg.Dir); err != nil {
			a.browser.SetError(err)
			return a, nil
		}
		if msg.From != "" {
			a.selectAfter = filepath.Base(msg.From)
		}
		return a, a.refresh()

	case views.OpenFileMsg:
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetError(msg.err)
		}
		return a, a.refresh()

	case views.BeginEditMsg:
		return a, a.beginEdit()

	case editStartedMsg:
		if msg.err != nil {
			a.browser.SetError(msg.err)
			return a, nil
		}
		a.state = ViewEditor
		return a, a.editor.SetBuffer(a.dir, msg.lines)

	case views.PreviewMsg:
		return a, a.showPreview(msg.Lines)

	case views.BackToEditorMsg:
		a.state = ViewEditor
		return a, nil

	case views.CommitMsg:
		a.state = ViewBrowser
		a.browser.SetMessage("Applying...", false)
		return a, a.commit(msg.Lines)

	case views.CommitDoneMsg:
		a.finishCommit(msg)
		return a, a.refresh()

	case views.CancelEditMsg:
		if err := a.deps.Sessions.Cancel(a.handle); err != nil && !errors.Is(err, application.ErrNotEditing) {
			a.browser.SetError(err)
		}
		a.state = ViewBrowser
		return a, a.refresh()

	case views.UndoMsg:
		return a, a.undo(msg.Redo)

	case undoDoneMsg:
		a.finishUndo(msg)
		return a, a.refresh()

	case views.RefreshMsg:
		return a, a.refresh()

	case views.ToggleHiddenMsg:
		if a.deps.Hidden == nil {
			return a, nil
		}
		show := !a.deps.Hidden.ShowHidden()
		a.deps.Hidden.SetShowHidden(show)
		if show {
			a.browser.SetMessage("Showing hidden files", false)
		} else {
			a.browser.SetMessage("Hiding hidden files", false)
		}
		return a, a.refresh()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewEditor:
		_, cmd = a.editor.Update(msg)
	case ViewPreview:
		_, cmd = a.preview.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}
	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewEditor:
		return a.editor.View()
	case ViewPreview:
		return a.preview.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}

func (a *App) open(dir string) error {
	handle, err := a.deps.Sessions.Open(dir)
	if err != nil {
		return err
	}
	abs, err := a.deps.Sessions.Dir(handle)
	if err != nil {
		return err
	}

	if a.deps.Notifier != nil && abs != a.dir {
		if err := a.deps.Notifier.Watch(abs); err != nil {
			a.logger.Warn("failed to watch directory", zap.String("dir", abs), zap.Error(err))
		}
	}

	a.handle = handle
	a.dir = abs
	a.browser.SetDir(abs)
	a.updateHistory()
	return nil
}

func (a *App) changeDir(dir string) error {
	old := a.dir
	if err := a.open(dir); err != nil {
		return err
	}
	if a.deps.Notifier != nil && old != a.dir {
		a.deps.Notifier.Unwatch(old)
	}
	return nil
}

// refresh supersedes any listing in flight for the current directory
func (a *App) refresh() tea.Cmd {
	task := a.deps.Refresher.Begin(a.ctx, a.dir)
	return func() tea.Msg {
		return listingMsg{res: task.Run()}
	}
}

func (a *App) applyListing(res application.RefreshResult) {
	if res.Dir != a.dir {
		return
	}
	if res.Err != nil {
		if !errors.Is(res.Err, context.Canceled) {
			a.browser.SetError(res.Err)
		}
		return
	}
	if !a.deps.Refresher.Current(res) {
		return
	}
	a.browser.SetEntries(res.Entries, res.InRepo)
	if a.selectAfter != "" {
		a.browser.Select(a.selectAfter)
		a.selectAfter = ""
	}
}

func (a *App) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	ch := a.changes
	return func() tea.Msg {
		ev, ok := <-ch
		return changeMsg{ev: ev, ok: ok}
	}
}

func (a *App) beginEdit() tea.Cmd {
	ctx, handle := a.ctx, a.handle
	return func() tea.Msg {
		lines, err := a.deps.Sessions.BeginEdit(ctx, handle)
		return editStartedMsg{lines: lines, err: err}
	}
}

func (a *App) showPreview(lines []string) tea.Cmd {
	p, err := a.deps.Sessions.Preview(a.handle, lines)
	if err != nil {
		a.editor.SetError(err)
		return nil
	}
	if p.Empty() && len(p.Notes) == 0 {
		if err := a.deps.Sessions.Cancel(a.handle); err != nil {
			a.logger.Warn("failed to leave edit mode", zap.Error(err))
		}
		a.state = ViewBrowser
		a.browser.SetMessage("No changes", false)
		return a.refresh()
	}
	a.preview.SetPreview(p, lines)
	a.state = ViewPreview
	return nil
}

func (a *App) commit(lines []string) tea.Cmd {
	ctx, handle := a.ctx, a.handle
	return func() tea.Msg {
		result, err := a.deps.Sessions.Commit(ctx, handle, lines)
		return views.CommitDoneMsg{Result: result, Err: err}
	}
}

func (a *App) finishCommit(msg views.CommitDoneMsg) {
	a.updateHistory()
	if msg.Err != nil {
		a.browser.SetError(msg.Err)
		return
	}
	a.browser.SetMessage(msg.Result.Summary(), msg.Result.HasFailures())
}

func (a *App) undo(redo bool) tea.Cmd {
	ctx, handle := a.ctx, a.handle
	return func() tea.Msg {
		var (
			op  domain.UndoOperation
			err error
		)
		if redo {
			op, err = a.deps.Sessions.Redo(ctx, handle)
		} else {
			op, err = a.deps.Sessions.Undo(ctx, handle)
		}
		return undoDoneMsg{op: op, redo: redo, err: err}
	}
}

func (a *App) finishUndo(msg undoDoneMsg) {
	a.updateHistory()
	switch {
	case errors.Is(msg.err, application.ErrNothingToUndo):
		a.browser.SetMessage("Nothing to undo", false)
	case errors.Is(msg.err, application.ErrNothingToRedo):
		a.browser.SetMessage("Nothing to redo", false)
	case msg.err != nil:
		a.browser.SetError(msg.err)
	case msg.redo:
		a.browser.SetMessage(fmt.Sprintf("Redid: %s", domain.Describe(msg.op)), false)
	default:
		a.browser.SetMessage(fmt.Sprintf("Undid: %s", domain.Describe(msg.op)), false)
	}
}

func (a *App) updateHistory() {
	log, err := a.deps.Sessions.Log(a.handle)
	if err != nil {
		return
	}
	var undo, redo string
	if op, ok := log.PeekUndo(); ok {
		undo = domain.Describe(op)
	}
	if op, ok := log.PeekRedo(); ok {
		redo = domain.Describe(op)
	}
	a.browser.SetHistory(undo, redo)
}

func (a *App) openEditor(path string) tea.Cmd {
	if a.deps.Editor == nil {
		return nil
	}

	cmd, err := a.deps.Editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}
