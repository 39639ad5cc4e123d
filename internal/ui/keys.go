package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding

	// View switching
	ViewPanel     key.Binding
	ViewFavorites key.Binding
	ViewTags      key.Binding
	ViewLogs      key.Binding

	// Panel actions
	Edit      key.Binding
	Clear     key.Binding
	Fetch     key.Binding
	CycleMode key.Binding
	Favorite  key.Binding

	// List actions
	Remove key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Return to panel"),
		),

		ViewPanel: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Panel"),
		),
		ViewFavorites: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Favourites"),
		),
		ViewTags: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Tags"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Log"),
		),

		Edit: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Edit/toggle field"),
		),
		Clear: key.NewBinding(
			key.WithKeys("backspace", "delete"),
			key.WithHelp("bksp", "Clear field"),
		),
		Fetch: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Fetch"),
		),
		CycleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Cycle mode"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Save favourite"),
		),

		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Remove"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewPanel, k.ViewFavorites, k.ViewTags, k.ViewLogs, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Edit, k.Clear, k.Fetch, k.CycleMode, k.Favorite},
		{k.Remove},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
