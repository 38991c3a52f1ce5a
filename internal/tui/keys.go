package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Tabs
	NextTab key.Binding
	PrevTab key.Binding
	GoToTab key.Binding

	// Versions
	NextVersion key.Binding
	PrevVersion key.Binding

	// Actions
	Enter  key.Binding
	Search key.Binding
	Reload key.Binding
	Cancel key.Binding
	Back   key.Binding
	Quit   key.Binding
	Help   key.Binding

	// Package actions
	Install   key.Binding
	Uninstall key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j/down", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "go to bottom"),
		),

		NextTab: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("right/tab", "next environment"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("left/shift+tab", "previous environment"),
		),
		GoToTab: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump to environment"),
		),

		NextVersion: key.NewBinding(
			key.WithKeys("l", "]"),
			key.WithHelp("l/]", "next version"),
		),
		PrevVersion: key.NewBinding(
			key.WithKeys("h", "["),
			key.WithHelp("h/[", "previous version"),
		),

		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload catalog"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "b"),
			key.WithHelp("b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		Install: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "install selected version"),
		),
		Uninstall: key.NewBinding(
			key.WithKeys("u", "r"),
			key.WithHelp("u/r", "uninstall"),
		),
	}
}

// ShortHelp returns a condensed help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Install, k.Uninstall, k.PrevVersion, k.NextVersion, k.Search, k.Enter, k.Help, k.Quit,
	}
}

// FullHelp returns a complete help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.NextTab, k.PrevTab, k.GoToTab},
		{k.PrevVersion, k.NextVersion, k.Install, k.Uninstall},
		{k.Enter, k.Search, k.Reload, k.Back, k.Cancel},
		{k.Help, k.Quit},
	}
}

// helpSections titles the rows of FullHelp.
var helpSections = []string{"Navigation", "Environments", "Packages", "Actions", "General"}
