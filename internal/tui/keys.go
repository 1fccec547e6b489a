package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Craving  key.Binding
	QuitDate key.Binding
	Share    key.Binding
	Theme    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Craving, k.QuitDate, k.Share, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Craving, k.QuitDate, k.Share},
		{k.Theme, k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Craving: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "record craving"),
		),
		QuitDate: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "set quit date"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "copy share text"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
