package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the panel. Every other printable key
// goes to the PIN input.
type KeyMap struct {
	Arm       key.Binding
	Disarm    key.Binding
	Backspace key.Binding
	ClearPin  key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the bindings used by the panel
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Arm: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "arm"),
		),
		Disarm: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "disarm"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
		),
		ClearPin: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear pin"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}
