package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	NextPane key.Binding

	// Tracker actions
	Add         key.Binding
	LogProgress key.Binding
	PickStatus  key.Binding
	CycleStatus key.Binding
	Remove      key.Binding
	Chat        key.Binding

	// Discovery actions
	Teaser       key.Binding
	StartReading key.Binding
	Refresh      key.Binding

	// Shared
	Details key.Binding
	Filter  key.Binding
	Quit    key.Binding
	Help    key.Binding
	Escape  key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "h", "l", "left", "right"),
			key.WithHelp("tab", "switch pane"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add book"),
		),
		LogProgress: key.NewBinding(
			key.WithKeys("p", "enter"),
			key.WithHelp("p", "log pages"),
		),
		PickStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "next status"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		Chat: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "deep dive chat"),
		),

		Teaser: key.NewBinding(
			key.WithKeys("t", "enter"),
			key.WithHelp("t", "AI teaser"),
		),
		StartReading: key.NewBinding(
			key.WithKeys("+", "n"),
			key.WithHelp("+", "start reading"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh feed"),
		),

		Details: key.NewBinding(
			key.WithKeys("d", "i"),
			key.WithHelp("d", "details"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close/clear"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
