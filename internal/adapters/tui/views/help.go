package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vired/internal/adapters/tui/styles"
	"vired/internal/config"
)

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
	keys  Keys
	close key.Binding
}

// NewHelpModel creates a new help view model
func NewHelpModel(keys Keys) *HelpModel {
	return &HelpModel{
		keys: keys,
		close: key.NewBinding(
			key.WithKeys(append(keys.Binding(config.ActionHelp).Keys(), keys.Binding(config.ActionCancel).Keys()...)...),
		),
	}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.close) || m.keys.Matches(keyMsg, config.ActionQuit) {
			return m, emit(SwitchToBrowserMsg{})
		}
	}
	return m, nil
}

var helpSections = []struct {
	title   string
	actions []config.Action
}{
	{"Navigation", []config.Action{config.ActionUp, config.ActionDown, config.ActionPageUp, config.ActionPageDown, config.ActionTop, config.ActionBottom, config.ActionOpen, config.ActionParent, config.ActionRefresh, config.ActionToggleHidden}},
	{"Editing", []config.Action{config.ActionEdit, config.ActionCommit, config.ActionCancel, config.ActionCopy}},
	{"History", []config.Action{config.ActionUndo, config.ActionRedo}},
	{"General", []config.Action{config.ActionHelp, config.ActionQuit}},
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("vired help"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Edit the listing like text: change a name to rename, clear a line to delete, add a line to create. A trailing / makes a directory."))
	b.WriteString("\n\n")

	for _, section := range helpSections {
		b.WriteString(styles.InputLabel.Render(section.title))
		b.WriteString("\n")
		for _, a := range section.actions {
			h := m.keys.Binding(a).Help()
			b.WriteString(helpLine(h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	h := m.keys.Binding(config.ActionHelp).Help()
	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render(h.Key))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
