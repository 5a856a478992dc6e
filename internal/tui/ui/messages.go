package ui

// ThemeChangeRequestMsg asks the root model to switch to ThemeName.
type ThemeChangeRequestMsg struct {
	ThemeName string
}

// ThemeChangedMsg is broadcast to all views when the theme changes.
type ThemeChangedMsg struct {
	ThemeName string
	Styles    Styles
}

// EntriesChangedMsg is broadcast after a view stored or removed an entry,
// so views showing entries reload.
type EntriesChangedMsg struct{}
