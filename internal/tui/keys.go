package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Filter   key.Binding
	DetailUp key.Binding
	DetailDn key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("dn/j", "down"),
	),
	Filter: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "cycle filter"),
	),
	DetailUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u", "detail up"),
	),
	DetailDn: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "detail down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "detail pgup"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "detail pgdn"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
