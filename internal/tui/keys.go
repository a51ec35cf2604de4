package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// ═══════════════════════════════════════════════════════════════════════
	// GLOBAL
	// ═══════════════════════════════════════════════════════════════════════
	Quit      key.Binding
	Help      key.Binding
	NextPanel key.Binding
	PrevPanel key.Binding
	PlayPause key.Binding

	// Quick prompts, one binding per entry of responder.QuickPrompts
	QuickPrompts []key.Binding

	// ═══════════════════════════════════════════════════════════════════════
	// CHAT AND GENERATOR
	// ═══════════════════════════════════════════════════════════════════════
	Send      key.Binding
	GenreNext key.Binding
	GenrePrev key.Binding

	// ═══════════════════════════════════════════════════════════════════════
	// PLAYER
	// ═══════════════════════════════════════════════════════════════════════
	SongUp     key.Binding
	SongDown   key.Binding
	SelectSong key.Binding
	Toggle     key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		PrevPanel: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "play/pause"),
		),
		QuickPrompts: []key.Binding{
			key.NewBinding(key.WithKeys("alt+1", "f2"), key.WithHelp("alt+1", "fill quick prompt 1")),
			key.NewBinding(key.WithKeys("alt+2", "f3"), key.WithHelp("alt+2", "fill quick prompt 2")),
			key.NewBinding(key.WithKeys("alt+3", "f4"), key.WithHelp("alt+3", "fill quick prompt 3")),
			key.NewBinding(key.WithKeys("alt+4", "f5"), key.WithHelp("alt+4", "fill quick prompt 4")),
		},
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		GenreNext: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next genre"),
		),
		GenrePrev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "prev genre"),
		),
		SongUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		SongDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		SelectSong: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select song"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
	}
}

// ShortHelp returns keybindings for the short help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.NextPanel, k.PlayPause, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.NextPanel, k.PrevPanel, k.PlayPause, k.Help, k.Quit},
		k.QuickPrompts,
		{k.GenreNext, k.GenrePrev},
		{k.SongUp, k.SongDown, k.SelectSong, k.Toggle},
	}
}
