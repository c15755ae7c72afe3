package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Up          key.Binding // previous video
	Down        key.Binding // next video
	ForYou      key.Binding // f: for-you algorithm
	Following   key.Binding // F: following algorithm
	Refresh     key.Binding
	Mute        key.Binding
	PlayPause   key.Binding
	OpenPost    key.Binding // g: look up a post by id
	Cancel      key.Binding
	ToggleHints key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "pgup", "k"),
			key.WithHelp("↑/k", "prev"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "pgdown", "j"),
			key.WithHelp("↓/j", "next"),
		),
		ForYou: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "for you"),
		),
		Following: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "following"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		OpenPost: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "open post"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.PlayPause, k.ToggleHints, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.PlayPause, k.Mute},
		{k.ForYou, k.Following, k.Refresh, k.OpenPost},
		{k.Cancel, k.ToggleHints, k.Quit, k.ForceQuit},
	}
}
