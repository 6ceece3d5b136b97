package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Add       key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	// form
	NextField key.Binding
	PrevField key.Binding
	Left      key.Binding
	Right     key.Binding
	Submit    key.Binding
	Cancel    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),

		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "change choice")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap for the list view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.MoveUp, k.MoveDown, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the list view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Toggle, k.Delete, k.Add},
		{k.Help, k.Quit},
	}
}

// formKeys is the help.KeyMap shown under the add form.
type formKeys keyMap

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Left, k.Submit, k.Cancel}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
