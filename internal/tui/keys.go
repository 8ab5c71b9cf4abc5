package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Open      key.Binding
	Back      key.Binding
	Trailer   key.Binding
	Watchlist key.Binding
	Search    key.Binding
	Trending  key.Binding
	Movies    key.Binding
	Shows     key.Binding
	Profiles  key.Binding
	NewProf   key.Binding
	Kids      key.Binding
	External  key.Binding
	Register  key.Binding
	Tab       key.Binding
	Logout    key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Trailer:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trailer")),
		Watchlist: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watchlist")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Trending:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "trending")),
		Movies:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "movies")),
		Shows:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "tv")),
		Profiles:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profiles")),
		NewProf:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new profile")),
		Kids:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "kids")),
		External:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open link")),
		Register:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
		Tab:       key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field")),
		Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
