package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Styles contains all the styles used in the TUI
type Styles struct {
	App lipgloss.Style

	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	ViewTitle lipgloss.Style

	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	// Entry list
	EntrySelected lipgloss.Style
	EntryNormal   lipgloss.Style
	EntrySpan     lipgloss.Style
	EntryDesc     lipgloss.Style
	EntryCategory lipgloss.Style
	EntryDuration lipgloss.Style

	TimerRunning lipgloss.Style
	TimerStopped lipgloss.Style
	TimerElapsed lipgloss.Style

	// Report and forms
	StatLabel lipgloss.Style
	StatValue lipgloss.Style

	Dialog lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

// palette maps semantic roles to colors.
type palette struct {
	primary    lipgloss.TerminalColor
	secondary  lipgloss.TerminalColor
	accent     lipgloss.TerminalColor
	muted      lipgloss.TerminalColor
	highlight  lipgloss.TerminalColor
	success    lipgloss.TerminalColor
	warning    lipgloss.TerminalColor
	errorColor lipgloss.TerminalColor
	fg         lipgloss.TerminalColor
	bg         lipgloss.TerminalColor
}

// DefaultStyles returns the styles for a 256-color terminal without a theme.
func DefaultStyles() Styles {
	return newStyles(palette{
		primary:    lipgloss.Color("99"),  // purple
		secondary:  lipgloss.Color("39"),  // cyan
		accent:     lipgloss.Color("212"), // pink
		muted:      lipgloss.Color("240"),
		highlight:  lipgloss.Color("237"),
		success:    lipgloss.Color("82"),
		warning:    lipgloss.Color("214"),
		errorColor: lipgloss.Color("196"),
		fg:         lipgloss.Color("252"),
		bg:         lipgloss.Color("236"),
	})
}

// NewStylesFromRegistry builds styles from the current tint of r:
// purple for titles and categories, cyan for spans and keys, bright purple
// for durations, bright black for labels.
func NewStylesFromRegistry(r *tint.Registry) Styles {
	return newStyles(palette{
		primary:    r.Purple(),
		secondary:  r.Cyan(),
		accent:     r.BrightPurple(),
		muted:      r.BrightBlack(),
		highlight:  r.BrightBlack(),
		success:    r.Green(),
		warning:    r.Yellow(),
		errorColor: r.Red(),
		fg:         r.Fg(),
		bg:         r.Bg(),
	})
}

func newStyles(p palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		TabBar: lipgloss.NewStyle().
			MarginBottom(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.muted),
		TabActive:   lipgloss.NewStyle().Foreground(p.primary).Bold(true).Padding(0, 2),
		TabInactive: lipgloss.NewStyle().Foreground(p.muted).Padding(0, 2),

		ViewTitle: lipgloss.NewStyle().Foreground(p.primary).Bold(true).MarginBottom(1),

		StatusBar:  lipgloss.NewStyle().Foreground(p.fg).Background(p.bg).Padding(0, 1),
		StatusKey:  lipgloss.NewStyle().Foreground(p.secondary).Bold(true),
		StatusHelp: lipgloss.NewStyle().Foreground(p.muted),

		EntrySelected: lipgloss.NewStyle().Background(p.highlight).Bold(true),
		EntryNormal:   lipgloss.NewStyle(),
		EntrySpan:     lipgloss.NewStyle().Foreground(p.secondary),
		EntryDesc:     lipgloss.NewStyle().Foreground(p.fg),
		EntryCategory: lipgloss.NewStyle().Foreground(p.primary),
		EntryDuration: lipgloss.NewStyle().Foreground(p.accent).Width(10).Align(lipgloss.Right),

		TimerRunning: lipgloss.NewStyle().Foreground(p.success).Bold(true),
		TimerStopped: lipgloss.NewStyle().Foreground(p.muted),
		TimerElapsed: lipgloss.NewStyle().Foreground(p.accent).Bold(true),

		StatLabel: lipgloss.NewStyle().Foreground(p.muted),
		StatValue: lipgloss.NewStyle().Foreground(p.fg).Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2).
			Width(50),

		Error:   lipgloss.NewStyle().Foreground(p.errorColor),
		Warning: lipgloss.NewStyle().Foreground(p.warning),
		Success: lipgloss.NewStyle().Foreground(p.success),
	}
}
