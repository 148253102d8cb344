package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the overlay reacts to.
type keyMap struct {
	Quit       key.Binding
	Toggle     key.Binding
	Refresh    key.Binding
	NextPane   key.Binding
	PrevPane   key.Binding
	Sections   [sectionCount]key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Expand     key.Binding
	Collapse   key.Binding
	Filter     key.Binding
	Back       key.Binding
	ToggleAll  key.Binding
	Copy       key.Binding
	CopyName   key.Binding
	CopyValue  key.Binding
	Submit     key.Binding
	Complete   key.Binding
	LogFilter  key.Binding
	LogLines   key.Binding
	LogLevel   key.Binding
	AutoScroll key.Binding
	ClearLog   key.Binding
	CopyLog    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Toggle:   key.NewBinding(key.WithKeys("f12"), key.WithHelp("f12", "hide/show")),
		Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		NextPane: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next")),
		PrevPane: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "prev")),
		Sections: [sectionCount]key.Binding{
			key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "options")),
			key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "properties")),
			key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "bindings")),
			key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "commands")),
			key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "console")),
		},
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:        key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Expand:     key.NewBinding(key.WithKeys("enter", " ", "right", "l"), key.WithHelp("enter", "expand")),
		Collapse:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		ToggleAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("0-7/a", "formats")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		CopyName:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "copy name")),
		CopyValue:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "copy value")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "execute")),
		Complete:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		LogFilter:  key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "filter")),
		LogLines:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "lines")),
		LogLevel:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "level")),
		AutoScroll: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "auto-scroll")),
		ClearLog:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear")),
		CopyLog:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy log")),
	}
}
