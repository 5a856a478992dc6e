package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap contains all key bindings for the TUI
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	NextTab key.Binding
	PrevTab key.Binding
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding

	Select  key.Binding
	Back    key.Binding
	Confirm key.Binding
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding
	Theme   key.Binding

	// Entries view
	New    key.Binding
	Delete key.Binding

	// Timer view
	Start  key.Binding
	Stop   key.Binding
	Cancel key.Binding

	// Date range shortcuts, shared by the entries and report views
	Today     key.Binding
	Yesterday key.Binding
	ThisWeek  key.Binding
	PrevWeek  key.Binding
	ThisMonth key.Binding
	PrevMonth key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),

		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Tab1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "entries")),
		Tab2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "timer")),
		Tab3:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "report")),

		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Theme:   key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "next theme")),

		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new entry")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),

		Start:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Cancel: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel")),

		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Yesterday: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yesterday")),
		ThisWeek:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "this week")),
		PrevWeek:  key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "prev week")),
		ThisMonth: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "this month")),
		PrevMonth: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "prev month")),
	}
}
