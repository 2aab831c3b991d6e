package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Balls    key.Binding
	Foul     key.Binding
	Order    key.Binding
	End      key.Binding
	Reset    key.Binding
	Add      key.Binding
	Remove   key.Binding
	History  key.Binding
	Focus    key.Binding
	Quit     key.Binding
	Expand   key.Binding
	Edit     key.Binding
	Mark     key.Binding
	Delete   key.Binding
	ClearAll key.Binding
	Filter   key.Binding
	Back     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Balls:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "pot")),
		Foul:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "foul")),
		Order:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
		End:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end round")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add player")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		History:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "command line")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Expand:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Mark:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete marked")),
		ClearAll: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Back:     key.NewBinding(key.WithKeys("esc", "h", "b"), key.WithHelp("esc", "back")),
		Confirm:  key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:   key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	}
}

// boardHelp and historyHelp satisfy help.KeyMap for the two screens.
type boardHelp keyMap

func (k boardHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Balls, k.Foul, k.End, k.History, k.Quit}
}

func (k boardHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Add, k.Remove},
		{k.Balls, k.Foul, k.Order, k.End, k.Reset},
		{k.History, k.Focus, k.Quit},
	}
}

type historyHelp keyMap

func (k historyHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Expand, k.Edit, k.Mark, k.Delete, k.ClearAll, k.Filter, k.Back}
}

func (k historyHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand},
		{k.Edit, k.Mark, k.Delete, k.ClearAll},
		{k.Filter, k.Back, k.Quit},
	}
}
