// Package tui provides the terminal user interface of logbook.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/tui/ui"
	"github.com/xolan/logbook/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabEntries Tab = iota
	TabTimer
	TabReport
)

var tabNames = []string{"Entries", "Timer", "Report"}

// Model is the root TUI model
type Model struct {
	services *service.Services

	activeTab Tab
	width     int
	height    int
	showHelp  bool

	entriesView views.EntriesModel
	timerView   views.TimerModel
	reportView  views.ReportModel

	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates the root model. ctx bounds every storage call the views make.
func New(ctx context.Context, services *service.Services) Model {
	themeProvider := ui.NewThemeProvider(services.Config.Get().Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		services:      services,
		activeTab:     TabEntries,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		entriesView:   views.NewEntriesModel(ctx, services, styles, keys),
		timerView:     views.NewTimerModel(ctx, services, styles, keys),
		reportView:    views.NewReportModel(ctx, services, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.entriesView.Init(),
		m.timerView.Init(),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Forms and confirmations own every key but ctrl+c.
		if m.isInputMode() {
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			name := m.themeProvider.NextTheme()
			return m, func() tea.Msg { return ui.ThemeChangeRequestMsg{ThemeName: name} }
		case key.Matches(msg, m.keys.NextTab):
			return m.switchTab(Tab((int(m.activeTab) + 1) % len(tabNames)))
		case key.Matches(msg, m.keys.PrevTab):
			return m.switchTab(Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames)))
		case key.Matches(msg, m.keys.Tab1):
			return m.switchTab(TabEntries)
		case key.Matches(msg, m.keys.Tab2):
			return m.switchTab(TabTimer)
		case key.Matches(msg, m.keys.Tab3):
			return m.switchTab(TabReport)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // tabs and status bar
		m.entriesView.SetSize(m.width, contentHeight)
		m.timerView.SetSize(m.width, contentHeight)
		m.reportView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.ThemeChangeRequestMsg:
		m.themeProvider.SetTheme(msg.ThemeName)
		m.styles = m.themeProvider.Styles()

		themeMsg := ui.ThemeChangedMsg{ThemeName: m.themeProvider.CurrentName(), Styles: m.styles}
		m.entriesView, _ = m.entriesView.Update(themeMsg)
		m.timerView, _ = m.timerView.Update(themeMsg)
		m.reportView, _ = m.reportView.Update(themeMsg)
		return m, m.saveThemeConfig(themeMsg.ThemeName)

	case ui.EntriesChangedMsg:
		var entriesCmd, reportCmd tea.Cmd
		m.entriesView, entriesCmd = m.entriesView.Update(msg)
		m.reportView, reportCmd = m.reportView.Update(msg)
		return m, tea.Batch(entriesCmd, reportCmd)
	}

	// Ticks and loaded results go to their own view whatever tab is active.
	switch m.activeTab {
	case TabEntries:
		m.entriesView, cmd = m.entriesView.Update(msg)
	case TabTimer:
		m.timerView, cmd = m.timerView.Update(msg)
	case TabReport:
		m.reportView, cmd = m.reportView.Update(msg)
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, cmd
	}

	var extra []tea.Cmd
	if m.activeTab != TabEntries {
		var c tea.Cmd
		m.entriesView, c = m.entriesView.Update(msg)
		extra = append(extra, c)
	}
	if m.activeTab != TabTimer {
		var c tea.Cmd
		m.timerView, c = m.timerView.Update(msg)
		extra = append(extra, c)
	}
	if m.activeTab != TabReport {
		var c tea.Cmd
		m.reportView, c = m.reportView.Update(msg)
		extra = append(extra, c)
	}
	return m, tea.Batch(append(extra, cmd)...)
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.activeTab = tab
	return m, m.initCurrentView()
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabEntries:
		b.WriteString(m.entriesView.View())
	case TabTimer:
		b.WriteString(m.timerView.View())
	case TabReport:
		b.WriteString(m.reportView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.styles.App.Render(m.styles.Dialog.Render(m.helpText()))
	}
	return m.styles.App.Render(b.String())
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.isInputMode() {
		parts = append(parts, m.renderKeyHelp("Enter", "confirm"), m.renderKeyHelp("Esc", "cancel"))
	} else {
		switch m.activeTab {
		case TabEntries:
			parts = append(parts,
				m.renderKeyHelp("n", "new"),
				m.renderKeyHelp("d", "delete"),
				m.renderKeyHelp("t/y/w/m", "range"))
		case TabTimer:
			parts = append(parts,
				m.renderKeyHelp("s", "start"),
				m.renderKeyHelp("x", "stop"),
				m.renderKeyHelp("c", "cancel"))
		case TabReport:
			parts = append(parts, m.renderKeyHelp("t/y/w/m", "range"))
		}
		parts = append(parts,
			m.renderKeyHelp("1-3", "views"),
			m.renderKeyHelp("T", m.themeProvider.CurrentName()),
			m.renderKeyHelp("?", "help"),
			m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")
	if padding := m.width - lipgloss.Width(content); padding > 0 {
		content += strings.Repeat(" ", padding)
	}
	return m.styles.StatusBar.Render(content)
}

func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s", m.styles.StatusKey.Render(key), m.styles.StatusHelp.Render(desc))
}

func (m Model) isInputMode() bool {
	switch m.activeTab {
	case TabEntries:
		return m.entriesView.IsInputMode()
	case TabTimer:
		return m.timerView.IsInputMode()
	}
	return false
}

func (m Model) initCurrentView() tea.Cmd {
	switch m.activeTab {
	case TabEntries:
		return m.entriesView.Init()
	case TabTimer:
		return m.timerView.Init()
	case TabReport:
		return m.reportView.Init()
	}
	return nil
}

// saveThemeConfig persists the theme when a config file exists.
func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	return func() tea.Msg {
		_ = m.services.Config.SetTheme(themeName)
		return nil
	}
}

func (m Model) helpText() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")
	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/1-3    Switch views\n")
	help.WriteString("  T          Next color theme\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit\n\n")

	switch m.activeTab {
	case TabEntries:
		help.WriteString(m.styles.StatLabel.Render("Entries:"))
		help.WriteString("\n")
		help.WriteString("  t/y        Today/Yesterday\n")
		help.WriteString("  w/W        This/Previous week\n")
		help.WriteString("  m/M        This/Previous month\n")
		help.WriteString("  j/k        Navigate down/up\n")
		help.WriteString("  n          New entry\n")
		help.WriteString("  d          Delete the stored entry under the cursor\n")
		help.WriteString("  r          Refresh\n")
	case TabTimer:
		help.WriteString(m.styles.StatLabel.Render("Timer:"))
		help.WriteString("\n")
		help.WriteString("  s          Start timer\n")
		help.WriteString("  x          Stop timer and log the entry\n")
		help.WriteString("  c          Discard timer\n")
		help.WriteString("  r          Refresh\n")
	case TabReport:
		help.WriteString(m.styles.StatLabel.Render("Report:"))
		help.WriteString("\n")
		help.WriteString("  t/y        Today/Yesterday\n")
		help.WriteString("  w/W        This/Previous week\n")
		help.WriteString("  m/M        This/Previous month\n")
		help.WriteString("  r          Refresh\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))
	return help.String()
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, services *service.Services) error {
	p := tea.NewProgram(New(ctx, services), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
