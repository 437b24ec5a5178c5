package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Grab   key.Binding
	Drop   key.Binding
	Trash  key.Binding
	Cancel key.Binding
	Add    key.Binding
	Reload key.Binding
	Yes    key.Binding
	No     key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Grab:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pick up")),
		Drop:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Trash:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "trash")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add column")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		No:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "keep")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Drop, k.Trash, k.Add, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Grab, k.Drop, k.Trash, k.Cancel},
		{k.Add, k.Reload, k.Help, k.Quit},
	}
}
