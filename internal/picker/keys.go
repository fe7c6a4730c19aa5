package picker

import "github.com/charmbracelet/bubbles/key"

// keyMap binds the picker's text-editing and navigation operations.
// Confirm/Cancel/navigation bindings follow the conventional terminal
// set; SwitchMode and Refresh are user-settable key names read from
// configuration.
type keyMap struct {
	SwitchMode key.Binding
	Refresh    key.Binding

	Confirm       key.Binding
	Cancel        key.Binding
	OpenInBrowser key.Binding

	MoveUp   key.Binding
	MoveDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	CursorLeft      key.Binding
	CursorRight     key.Binding
	MoveToLineStart key.Binding
	MoveToLineEnd   key.Binding

	Backspace         key.Binding
	Delete            key.Binding
	DeleteWord        key.Binding
	DeleteToLineStart key.Binding
	DeleteToLineEnd   key.Binding
}

// newKeyMap builds the key map, binding SwitchMode/Refresh to the
// configured key names (defaulting to tab/F5).
func newKeyMap(switchModeKey, refreshKey string) keyMap {
	return keyMap{
		SwitchMode: key.NewBinding(key.WithKeys(switchModeKey)),
		Refresh:    key.NewBinding(key.WithKeys(refreshKey)),

		Confirm:       key.NewBinding(key.WithKeys("enter")),
		Cancel:        key.NewBinding(key.WithKeys("esc", "ctrl+c")),
		OpenInBrowser: key.NewBinding(key.WithKeys("ctrl+o")),

		MoveUp:   key.NewBinding(key.WithKeys("up", "ctrl+p")),
		MoveDown: key.NewBinding(key.WithKeys("down", "ctrl+n")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),

		CursorLeft:      key.NewBinding(key.WithKeys("left", "ctrl+b")),
		CursorRight:     key.NewBinding(key.WithKeys("right", "ctrl+f")),
		MoveToLineStart: key.NewBinding(key.WithKeys("home", "ctrl+a")),
		MoveToLineEnd:   key.NewBinding(key.WithKeys("end", "ctrl+e")),

		Backspace:         key.NewBinding(key.WithKeys("backspace")),
		Delete:            key.NewBinding(key.WithKeys("delete", "ctrl+d")),
		DeleteWord:        key.NewBinding(key.WithKeys("ctrl+w", "alt+backspace")),
		DeleteToLineStart: key.NewBinding(key.WithKeys("ctrl+u")),
		DeleteToLineEnd:   key.NewBinding(key.WithKeys("ctrl+k")),
	}
}
