package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/mvpquest/engine/input"
)

// keyMap binds terminal keys to game inputs.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Confirm   key.Binding
	Interact  key.Binding
	Inventory key.Binding
	Close     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Confirm: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "talk/next"),
		),
		Interact: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "interact"),
		),
		Inventory: key.NewBinding(
			key.WithKeys("i", "tab"),
			key.WithHelp("i", "inventory"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Inventory, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Confirm, k.Interact, k.Inventory, k.Close},
		{k.Help, k.Quit},
	}
}

// gameKey maps a key message to the game input it triggers.
func (k keyMap) gameKey(msg tea.KeyMsg) (input.Key, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return input.Up, true
	case key.Matches(msg, k.Down):
		return input.Down, true
	case key.Matches(msg, k.Left):
		return input.Left, true
	case key.Matches(msg, k.Right):
		return input.Right, true
	case key.Matches(msg, k.Confirm):
		return input.Confirm, true
	case key.Matches(msg, k.Interact):
		return input.Interact, true
	case key.Matches(msg, k.Inventory):
		return input.Inventory, true
	case key.Matches(msg, k.Close):
		return input.Close, true
	}
	return 0, false
}
