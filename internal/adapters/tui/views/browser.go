package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"vired/internal/adapters/tui/styles"
	"vired/internal/config"
	"vired/internal/domain"
)

// reserved rows: title, header, blank, history hint, message, help
const browserChrome = 8

// BrowserModel shows the live listing of one directory
type BrowserModel struct {
	ViewState
	keys   Keys
	layout domain.ColumnLayout
	pager  *Paginator

	dir     string
	entries []domain.DirectoryEntry
	inRepo  bool
	loading bool

	undoHint string
	redoHint string
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(keys Keys, layout domain.ColumnLayout) *BrowserModel {
	return &BrowserModel{
		keys:    keys,
		layout:  layout,
		pager:   NewPaginator(20),
		loading: true,
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.ClearMessage()

	switch {
	case m.keys.Matches(keyMsg, config.ActionQuit):
		return m, tea.Quit

	case m.keys.Matches(keyMsg, config.ActionUp):
		m.pager.CursorUp()

	case m.keys.Matches(keyMsg, config.ActionDown):
		m.pager.CursorDown()

	case m.keys.Matches(keyMsg, config.ActionPageUp):
		m.pager.PageUp()

	case m.keys.Matches(keyMsg, config.ActionPageDown):
		m.pager.PageDown()

	case m.keys.Matches(keyMsg, config.ActionTop):
		m.pager.Top()

	case m.keys.Matches(keyMsg, config.ActionBottom):
		m.pager.Bottom()

	case m.keys.Matches(keyMsg, config.ActionOpen):
		if e, ok := m.Selected(); ok {
			if e.IsDir() {
				return m, emit(ChangeDirMsg{Dir: e.Path})
			}
			return m, emit(OpenFileMsg{Path: e.Path})
		}

	case m.keys.Matches(keyMsg, config.ActionParent):
		if parent := parentDir(m.dir); parent != m.dir {
			return m, emit(ChangeDirMsg{Dir: parent, From: m.dir})
		}

	case m.keys.Matches(keyMsg, config.ActionEdit):
		return m, emit(BeginEditMsg{})

	case m.keys.Matches(keyMsg, config.ActionUndo):
		return m, emit(UndoMsg{})

	case m.keys.Matches(keyMsg, config.ActionRedo):
		return m, emit(UndoMsg{Redo: true})

	case m.keys.Matches(keyMsg, config.ActionRefresh):
		return m, emit(RefreshMsg{})

	case m.keys.Matches(keyMsg, config.ActionToggleHidden):
		return m, emit(ToggleHiddenMsg{})

	case m.keys.Matches(keyMsg, config.ActionHelp):
		return m, emit(SwitchToHelpMsg{})
	}
	return m, nil
}

// SetDir switches the browser to dir and shows it as loading
func (m *BrowserModel) SetDir(dir string) {
	if dir != m.dir {
		m.pager.Reset()
	}
	m.dir = dir
	m.loading = true
}

// Dir returns the directory being browsed
func (m *BrowserModel) Dir() string {
	return m.dir
}

// SetEntries replaces the listing, keeping the cursor on the same name when
// it is still there
func (m *BrowserModel) SetEntries(entries []domain.DirectoryEntry, inRepo bool) {
	var current string
	if e, ok := m.Selected(); ok {
		current = e.Name
	}

	m.entries = entries
	m.inRepo = inRepo
	m.loading = false
	m.pager.SetTotal(len(entries))

	if current != "" {
		m.Select(current)
	}
}

// Select moves the cursor to the entry with the given name
func (m *BrowserModel) Select(name string) bool {
	for i, e := range m.entries {
		if e.Name == name {
			m.pager.SetCursor(i)
			return true
		}
	}
	return false
}

// Selected returns the entry under the cursor
func (m *BrowserModel) Selected() (domain.DirectoryEntry, bool) {
	i := m.pager.Cursor()
	if i >= 0 && i < len(m.entries) {
		return m.entries[i], true
	}
	return domain.DirectoryEntry{}, false
}

// SetHistory sets the descriptions of what undo and redo would do next
func (m *BrowserModel) SetHistory(undo, redo string) {
	m.undoHint = undo
	m.redoHint = redo
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	page := height - browserChrome
	if page < 5 {
		page = 5
	}
	cursor := m.pager.Cursor()
	m.pager = NewPaginator(page)
	m.pager.SetTotal(len(m.entries))
	m.pager.SetCursor(cursor)
}

// View renders the browser
func (m *BrowserModel) View() string {
	v := NewViewBuilder()

	title := "vired " + ShortenPath(m.dir)
	if m.inRepo {
		title += " " + styles.RepoBadge.Render("git")
	}
	v.Line(RenderTitle(title))
	v.Line(styles.Header.Render(domain.HeaderLine(m.dir)))

	switch {
	case m.loading && len(m.entries) == 0:
		v.Muted("Loading...")
	case len(m.entries) == 0:
		v.Muted("(empty)")
	default:
		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderEntry(m.entries[i], i == m.pager.Cursor()))
		}
		if m.pager.TotalPages() > 1 {
			v.Muted(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), m.pager.TotalPages()))
		}
	}

	v.BlankLine()
	if hint := m.historyLine(); hint != "" {
		v.Muted(hint)
	}
	v.Message(m.Message, m.MessageErr)
	v.Help(
		m.keys.Binding(config.ActionOpen),
		m.keys.Binding(config.ActionParent),
		m.keys.Binding(config.ActionEdit),
		m.keys.Binding(config.ActionUndo),
		m.keys.Binding(config.ActionHelp),
		m.keys.Binding(config.ActionQuit),
	)
	return v.String()
}

func (m *BrowserModel) renderEntry(e domain.DirectoryEntry, selected bool) string {
	line := domain.RenderLine(e, m.layout)
	if selected {
		return styles.EntrySelected.Render(line)
	}
	switch e.Kind {
	case domain.KindDirectory:
		return styles.EntryDir.Render(line)
	case domain.KindSymlink:
		return styles.EntryLink.Render(line)
	default:
		return styles.EntryFile.Render(line)
	}
}

func (m *BrowserModel) historyLine() string {
	var parts []string
	if m.undoHint != "" {
		parts = append(parts, "undo: "+m.undoHint)
	}
	if m.redoHint != "" {
		parts = append(parts, "redo: "+m.redoHint)
	}
	return strings.Join(parts, "  ")
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
