package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the form's key bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Min      key.Binding
	Max      key.Binding
	Enter    key.Binding
	Predict  key.Binding
	Review   key.Binding
	Copy     key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/k", "previous field")),
		Down:     key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "next field")),
		Left:     key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/h", "decrease")),
		Right:    key.NewBinding(key.WithKeys("right", "l", "+", "="), key.WithHelp("→/l", "increase")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "L"), key.WithHelp("pgup", "increase ×10")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "H"), key.WithHelp("pgdn", "decrease ×10")),
		Min:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "minimum")),
		Max:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "maximum")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit / press")),
		Predict:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "predict")),
		Review:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "review data")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Reset:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset defaults")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Right, k.Predict, k.Review, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Left, k.Right, k.PageUp, k.PageDown, k.Min, k.Max},
		{k.Predict, k.Review, k.Copy, k.Reset},
		{k.Help, k.Quit},
	}
}
