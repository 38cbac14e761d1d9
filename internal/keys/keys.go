// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application. Each key maps to
// exactly one operation.
type KeyMap struct {
	// Hunk navigation
	Advance  key.Binding
	GoBack   key.Binding
	NextFile key.Binding
	PrevFile key.Binding

	// Scrolling
	ScrollUp   key.Binding
	ScrollDown key.Binding

	// Mode toggles
	ViewMode   key.Binding
	StreamMode key.Binding
	Speed      key.Binding
	Wrap       key.Binding
	FileNames  key.Binding
	ClearSeen  key.Binding

	// General
	Refresh key.Binding
	Focus   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Advance: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "next hunk"),
		),
		GoBack: key.NewBinding(
			key.WithKeys("backspace", "shift+tab"),
			key.WithHelp("bksp", "previous hunk"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p", "prev file"),
		),

		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),

		ViewMode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle view mode"),
		),
		StreamMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle auto-stream"),
		),
		Speed: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle speed"),
		),
		Wrap: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle wrap"),
		),
		FileNames: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle filenames"),
		),
		ClearSeen: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear seen"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the collapsed help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.NextFile, k.StreamMode, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Advance, k.GoBack, k.NextFile, k.PrevFile},
		{k.ScrollUp, k.ScrollDown, k.Focus, k.Wrap, k.FileNames},
		{k.ViewMode, k.StreamMode, k.Speed, k.ClearSeen},
		{k.Refresh, k.Help, k.Quit},
	}
}
