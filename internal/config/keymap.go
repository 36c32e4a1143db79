package config

import (
	"fmt"
	"sort"
	"strings"
)

// Action is a user command the interface can bind keys to
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionPageUp
	ActionPageDown
	ActionTop
	ActionBottom
	ActionOpen
	ActionParent
	ActionEdit
	ActionCommit
	ActionCancel
	ActionUndo
	ActionRedo
	ActionRefresh
	ActionCopy
	ActionToggleHidden
	ActionHelp
	ActionQuit
)

// Actions lists every action in display order
var Actions = []Action{
	ActionUp, ActionDown, ActionPageUp, ActionPageDown,
	ActionTop, ActionBottom, ActionOpen, ActionParent,
	ActionEdit, ActionCommit, ActionCancel,
	ActionUndo, ActionRedo, ActionRefresh, ActionCopy,
	ActionToggleHidden, ActionHelp, ActionQuit,
}

var actionNames = map[Action]string{
	ActionUp:           "up",
	ActionDown:         "down",
	ActionPageUp:       "page_up",
	ActionPageDown:     "page_down",
	ActionTop:          "top",
	ActionBottom:       "bottom",
	ActionOpen:         "open",
	ActionParent:       "parent",
	ActionEdit:         "edit",
	ActionCommit:       "commit",
	ActionCancel:       "cancel",
	ActionUndo:         "undo",
	ActionRedo:         "redo",
	ActionRefresh:      "refresh",
	ActionCopy:         "copy",
	ActionToggleHidden: "toggle_hidden",
	ActionHelp:         "help",
	ActionQuit:         "quit",
}

var actionHelp = map[Action]string{
	ActionUp:           "up",
	ActionDown:         "down",
	ActionPageUp:       "page up",
	ActionPageDown:     "page down",
	ActionTop:          "first entry",
	ActionBottom:       "last entry",
	ActionOpen:         "open directory",
	ActionParent:       "parent directory",
	ActionEdit:         "edit listing",
	ActionCommit:       "apply changes",
	ActionCancel:       "cancel",
	ActionUndo:         "undo",
	ActionRedo:         "redo",
	ActionRefresh:      "refresh",
	ActionCopy:         "copy preview",
	ActionToggleHidden: "toggle hidden",
	ActionHelp:         "help",
	ActionQuit:         "quit",
}

// DefaultBindings is the keymap used when nothing is configured
var DefaultBindings = map[Action][]string{
	ActionUp:           {"k", "up"},
	ActionDown:         {"j", "down"},
	ActionPageUp:       {"pgup", "ctrl+u"},
	ActionPageDown:     {"pgdown", "ctrl+d"},
	ActionTop:          {"g", "home"},
	ActionBottom:       {"G", "end"},
	ActionOpen:         {"enter", "l", "right"},
	ActionParent:       {"-", "h", "left", "backspace"},
	ActionEdit:         {"i", "e"},
	ActionCommit:       {"ctrl+s"},
	ActionCancel:       {"esc"},
	ActionUndo:         {"u"},
	ActionRedo:         {"ctrl+r"},
	ActionRefresh:      {"r"},
	ActionCopy:         {"y"},
	ActionToggleHidden: {"."},
	ActionHelp:         {"?"},
	ActionQuit:         {"q", "ctrl+c"},
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Help returns a short description of the action
func (a Action) Help() string {
	return actionHelp[a]
}

// ParseAction resolves an action name as used in config files
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action: %q", name)
}

// Keymap maps keys to actions. It is resolved once, when the config loads.
type Keymap struct {
	keys   map[Action][]string
	lookup map[string]Action
}

// NewKeymap applies overrides on top of DefaultBindings. Overrides are keyed
// by action name. A key bound to two actions is an error.
func NewKeymap(overrides map[string][]string) (*Keymap, error) {
	keys := make(map[Action][]string, len(DefaultBindings))
	for a, k := range DefaultBindings {
		keys[a] = append([]string(nil), k...)
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a, err := ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("keymap: %w", err)
		}
		if len(overrides[name]) == 0 {
			return nil, fmt.Errorf("keymap: no keys for %s", name)
		}
		keys[a] = overrides[name]
	}

	lookup := make(map[string]Action)
	for _, a := range Actions {
		for _, k := range keys[a] {
			if other, ok := lookup[k]; ok {
				return nil, fmt.Errorf("keymap: %q bound to both %s and %s", k, other, a)
			}
			lookup[k] = a
		}
	}
	return &Keymap{keys: keys, lookup: lookup}, nil
}

// DefaultKeymap returns the built-in bindings
func DefaultKeymap() *Keymap {
	km, err := NewKeymap(nil)
	if err != nil {
		panic(err)
	}
	return km
}

// Keys returns the keys bound to an action
func (k *Keymap) Keys(a Action) []string {
	return k.keys[a]
}

// Resolve returns the action bound to a key
func (k *Keymap) Resolve(key string) (Action, bool) {
	a, ok := k.lookup[key]
	return a, ok
}
