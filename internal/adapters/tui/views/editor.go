package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"vired/internal/config"
)

// EditorModel is the listing buffer in edit mode
type EditorModel struct {
	ViewState
	keys  Keys
	input textarea.Model
	dir   string
}

// NewEditorModel creates a new editor model
func NewEditorModel(keys Keys) *EditorModel {
	input := textarea.New()
	input.ShowLineNumbers = true
	input.Prompt = ""
	input.CharLimit = 0
	input.MaxHeight = 0

	return &EditorModel{
		keys:  keys,
		input: input,
	}
}

// Init initializes the editor
func (m *EditorModel) Init() tea.Cmd {
	return textarea.Blink
}

// SetBuffer loads a frozen listing and focuses the editor
func (m *EditorModel) SetBuffer(dir string, lines []string) tea.Cmd {
	m.dir = dir
	m.ClearMessage()
	m.input.SetValue(strings.Join(lines, "\n"))
	return m.input.Focus()
}

// Lines returns the buffer as edited so far
func (m *EditorModel) Lines() []string {
	return strings.Split(m.input.Value(), "\n")
}

// Update handles messages for the editor
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case m.keys.Matches(keyMsg, config.ActionCommit):
			return m, emit(PreviewMsg{Lines: m.Lines()})
		case m.keys.Matches(keyMsg, config.ActionCancel):
			m.input.Blur()
			return m, emit(CancelEditMsg{})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// SetSize updates the view dimensions
func (m *EditorModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.input.SetWidth(max(width-4, 20))
	m.input.SetHeight(max(height-8, 5))
}

// View renders the editor
func (m *EditorModel) View() string {
	return NewViewBuilder().
		Line(RenderTitle("Editing " + ShortenPath(m.dir))).
		Line(m.input.View()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Help(
			m.keys.Binding(config.ActionCommit),
			m.keys.Binding(config.ActionCancel),
		).
		String()
}
