package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the task board.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Status filters
	FilterPending    key.Binding
	FilterInProgress key.Binding
	FilterCompleted  key.Binding

	// Priority filters
	FilterLow    key.Binding
	FilterMedium key.Binding
	FilterHigh   key.Binding

	// Sort and paging
	CycleSort   key.Binding
	ToggleOrder key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding

	// Actions
	ToggleDone key.Binding
	Start      key.Binding
	Create     key.Binding
	Edit       key.Binding
	Delete     key.Binding

	// Confirmation prompt
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		FilterPending: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "toggle pending"),
		),
		FilterInProgress: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "toggle in progress"),
		),
		FilterCompleted: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "toggle completed"),
		),
		FilterLow: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "toggle low"),
		),
		FilterMedium: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "toggle medium"),
		),
		FilterHigh: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "toggle high"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
		ToggleOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "asc/desc"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous page"),
		),
		ToggleDone: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "complete/reopen"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Create: key.NewBinding(
			key.WithKeys("c", "n"),
			key.WithHelp("c", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.ToggleDone,
		k.Create, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Help, k.Refresh, k.CycleSort, k.ToggleOrder, k.NextPage, k.PrevPage},
		{k.FilterPending, k.FilterInProgress, k.FilterCompleted, k.FilterLow, k.FilterMedium, k.FilterHigh},
		{k.ToggleDone, k.Start, k.Create, k.Edit, k.Delete},
	}
}
