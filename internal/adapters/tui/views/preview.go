package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"vired/internal/adapters/tui/styles"
	"vired/internal/application"
	"vired/internal/config"
	"vired/internal/domain"
)

// PreviewModel lists pending operations and asks for confirmation
type PreviewModel struct {
	ConfirmationModel
	keys    Keys
	preview *application.Preview
	lines   []string
	copy    func(string) error
}

// NewPreviewModel creates a new preview model
func NewPreviewModel(keys Keys) *PreviewModel {
	return &PreviewModel{
		ConfirmationModel: ConfirmationModel{Keys: NewConfirmKeys(keys)},
		keys:              keys,
		copy:              clipboard.WriteAll,
	}
}

// SetPreview loads the operations an edited buffer would perform
func (m *PreviewModel) SetPreview(p *application.Preview, lines []string) {
	m.preview = p
	m.lines = lines
	m.ClearMessage()
}

// Init initializes the preview
func (m *PreviewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the preview
func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.keys.Matches(keyMsg, config.ActionCopy) {
		if err := m.copy(m.Text()); err != nil {
			m.SetMessage("Copy failed: "+err.Error(), true)
		} else {
			m.SetMessage("Copied to clipboard", false)
		}
		return m, nil
	}

	lines := m.lines
	_, cmd := m.HandleKeyMsg(keyMsg,
		func() tea.Msg { return CommitMsg{Lines: lines} },
		func() tea.Msg { return BackToEditorMsg{} },
	)
	return m, cmd
}

// Text is the preview as plain text, one operation per line
func (m *PreviewModel) Text() string {
	if m.preview == nil {
		return ""
	}
	var b strings.Builder
	for _, op := range m.preview.Ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// View renders the preview
func (m *PreviewModel) View() string {
	v := NewViewBuilder().Title("Pending changes")
	if m.preview == nil {
		return v.String()
	}

	for _, op := range m.preview.Ops {
		v.Line(renderOp(op))
	}
	if len(m.preview.Warnings) > 0 {
		v.BlankLine()
		for _, w := range m.preview.Warnings {
			v.Line(styles.WarningMsg.Render("! " + w.String()))
		}
	}
	if len(m.preview.Notes) > 0 {
		v.BlankLine()
		for _, n := range m.preview.Notes {
			v.Muted("? " + n.Error())
		}
	}

	v.BlankLine()
	v.Message(m.Message, m.MessageErr)
	question := fmt.Sprintf("Apply %d change(s)?", len(m.preview.Ops))
	v.Line(RenderConfirmPrompt(question, m.Keys))
	v.Help(m.keys.Binding(config.ActionCopy))
	return v.String()
}

func renderOp(op domain.Operation) string {
	switch op.Kind {
	case domain.OpRename:
		return styles.OpRename.Render("R ") + op.Source + " → " + op.Dest
	case domain.OpDelete:
		return styles.OpDelete.Render("D ") + op.Source
	default:
		name := op.Dest
		if op.EntryKind == domain.KindDirectory {
			name += "/"
		}
		return styles.OpCreate.Render("C ") + name
	}
}
