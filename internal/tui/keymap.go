package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard bindings. It implements help.KeyMap.
type KeyMap struct {
	NextTab       key.Binding
	PrevTab       key.Binding
	ItemsTab      key.Binding
	RequestersTab key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the dashboard bindings. Arrow keys and vim keys both
// cycle tabs; digits jump straight to one.
func DefaultKeyMap() KeyMap {
	binding := func(help, desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
	}
	return KeyMap{
		NextTab:       binding("tab/→", "next tab", "tab", "l", "right"),
		PrevTab:       binding("shift+tab/←", "previous tab", "shift+tab", "h", "left"),
		ItemsTab:      binding("1", "top items", "1"),
		RequestersTab: binding("2", "top requesters", "2"),
		Help:          binding("?", "more keys", "?"),
		Quit:          binding("q", "quit", "q", "esc", "ctrl+c"),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab},
		{k.ItemsTab, k.RequestersTab},
		{k.Help, k.Quit},
	}
}
