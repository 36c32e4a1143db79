package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vired/internal/adapters/tui/styles"
	"vired/internal/config"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewConfirmKeys confirms with enter or the commit keys and cancels with n
// or the cancel keys
func NewConfirmKeys(keys Keys) ConfirmKeyMap {
	commit := keys.Binding(config.ActionCommit).Keys()
	cancel := keys.Binding(config.ActionCancel).Keys()
	return ConfirmKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys(append([]string{"enter"}, commit...)...),
			key.WithHelp(helpKeys(append([]string{"enter"}, commit...)), "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(append([]string{"n"}, cancel...)...),
			key.WithHelp(helpKeys(append([]string{"n"}, cancel...)), "back to editing"),
		),
	}
}

// ConfirmationModel provides a base for confirmation-style views
type ConfirmationModel struct {
	ViewState
	Keys ConfirmKeyMap
}

// HandleKeyMsg processes key messages for confirmation views.
// Returns (handled, cmd) where handled is true if the key was processed.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		return true, func() tea.Msg { return onCancel() }
	case key.Matches(msg, m.Keys.Confirm):
		return true, func() tea.Msg { return onConfirm() }
	}
	return false, nil
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string, keys ConfirmKeyMap) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render(keys.Confirm.Help().Key))
	b.WriteString(styles.HelpDesc.Render(" to apply, "))
	b.WriteString(styles.HelpKey.Render(keys.Cancel.Help().Key))
	b.WriteString(styles.HelpDesc.Render(" to keep editing"))
	return b.String()
}
