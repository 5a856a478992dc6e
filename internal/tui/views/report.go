package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/tui/ui"
)

// ReportModel totals the time per category for a date range.
type ReportModel struct {
	ctx      context.Context
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	width  int
	height int
	data   *service.ReportData
	err    error

	dateRange service.DateRangeSpec
}

// NewReportModel creates the report view showing this week.
func NewReportModel(ctx context.Context, services *service.Services, styles ui.Styles, keys ui.KeyMap) ReportModel {
	return ReportModel{
		ctx:       ctx,
		services:  services,
		styles:    styles,
		keys:      keys,
		dateRange: service.DateRangeSpec{Type: service.DateRangeThisWeek},
	}
}

type reportLoadedMsg struct {
	data *service.ReportData
	err  error
}

// Init implements tea.Model
func (m ReportModel) Init() tea.Cmd {
	return m.loadReport()
}

// Update implements tea.Model
func (m ReportModel) Update(msg tea.Msg) (ReportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if dr, ok := dateRangeForKey(m.keys, msg); ok {
			m.dateRange = dr
			return m, m.loadReport()
		}
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.loadReport()
		}

	case reportLoadedMsg:
		m.err = msg.err
		m.data = msg.data

	case ui.EntriesChangedMsg:
		return m, m.loadReport()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
	}
	return m, nil
}

// View implements tea.Model
func (m ReportModel) View() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(m.styles.ViewTitle.Render("Report"))
		b.WriteString("\n")
		b.WriteString(renderError(m.err, m.services.Entry.Location(), m.styles))
		return b.String()
	}
	if m.data == nil {
		b.WriteString(m.styles.ViewTitle.Render("Report"))
		b.WriteString("\n")
		b.WriteString("Loading...")
		return b.String()
	}

	b.WriteString(m.styles.ViewTitle.Render("Report for " + m.data.Period))
	b.WriteString("\n")

	st := m.data.Statistics
	if st.EntryCount == 0 {
		b.WriteString(m.styles.StatLabel.Render("No entries in this period"))
		return b.String()
	}

	b.WriteString(renderStatLine(m.styles, "Total time:", cli.FormatDuration(st.Total)))
	b.WriteString(renderStatLine(m.styles, "Entries:", fmt.Sprintf("%d", st.EntryCount)))
	b.WriteString(renderStatLine(m.styles, "Days with entries:", fmt.Sprintf("%d", st.DaysWithEntries)))
	b.WriteString(renderStatLine(m.styles, "Average per day:", cli.FormatDuration(st.AveragePerDay)))
	b.WriteString(renderStatLine(m.styles, "Coverage:", fmt.Sprintf("%.1f%%", st.Coverage*100)))
	if !m.data.PreviousWindow.Empty() {
		b.WriteString(renderStatLine(m.styles, "Previous period:", cli.FormatDuration(m.data.Previous.Total)))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.ViewTitle.Render("By category"))
	b.WriteString("\n")
	for _, c := range m.data.Categories {
		b.WriteString(fmt.Sprintf("  %s %s  (%d %s)\n",
			m.styles.EntryCategory.Render(fmt.Sprintf("%-20s", "@"+c.Category)),
			m.styles.EntryDuration.Render(cli.FormatDuration(c.Total)),
			c.EntryCount,
			cli.Pluralize("entry", c.EntryCount)))
	}

	return b.String()
}

// SetSize sets the view dimensions
func (m *ReportModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// DateRangeType returns the type of the range on screen.
func (m ReportModel) DateRangeType() service.DateRange {
	return m.dateRange.Type
}

func (m ReportModel) loadReport() tea.Cmd {
	return func() tea.Msg {
		data, err := m.services.Report.Report(m.ctx, m.dateRange, nil)
		return reportLoadedMsg{data: data, err: err}
	}
}
