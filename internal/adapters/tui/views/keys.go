package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vired/internal/config"
)

// Keys holds one binding per action, built from the configured keymap
type Keys struct {
	bindings map[config.Action]key.Binding
}

// NewKeys builds bindings from km. A nil keymap uses the defaults.
func NewKeys(km *config.Keymap) Keys {
	if km == nil {
		km = config.DefaultKeymap()
	}
	bindings := make(map[config.Action]key.Binding, len(config.Actions))
	for _, a := range config.Actions {
		keys := km.Keys(a)
		bindings[a] = key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(helpKeys(keys), a.Help()),
		)
	}
	return Keys{bindings: bindings}
}

// Binding returns the binding for an action
func (k Keys) Binding(a config.Action) key.Binding {
	return k.bindings[a]
}

// Matches reports whether msg triggers action a
func (k Keys) Matches(msg tea.KeyMsg, a config.Action) bool {
	return key.Matches(msg, k.bindings[a])
}

// helpKeys shortens "k, up" to "k/↑" for help lines
func helpKeys(keys []string) string {
	shown := make([]string, 0, len(keys))
	for _, k := range keys {
		switch k {
		case "up":
			k = "↑"
		case "down":
			k = "↓"
		case "left":
			k = "←"
		case "right":
			k = "→"
		}
		shown = append(shown, k)
	}
	return strings.Join(shown, "/")
}
