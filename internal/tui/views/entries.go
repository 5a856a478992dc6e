package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/tui/ui"
)

type entryMode int

const (
	entryModeNormal entryMode = iota
	entryModeAdd
	entryModeDelete
)

// EntriesModel lists the entries intersecting a date range, clipped to it,
// and adds or deletes entries.
type EntriesModel struct {
	ctx      context.Context
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	width  int
	height int
	cursor int
	result *service.ListResult
	err    error
	notice string

	dateRange service.DateRangeSpec

	mode    entryMode
	input   textinput.Model
	formErr error
	target  *entry.Entry // stored entry awaiting delete confirmation
}

// NewEntriesModel creates the entries view showing today.
func NewEntriesModel(ctx context.Context, services *service.Services, styles ui.Styles, keys ui.KeyMap) EntriesModel {
	ti := textinput.New()
	ti.Placeholder = "standup @work from 09:00 for 15m"
	ti.CharLimit = 200
	ti.Width = 50

	return EntriesModel{
		ctx:       ctx,
		services:  services,
		styles:    styles,
		keys:      keys,
		dateRange: service.DateRangeSpec{Type: service.DateRangeToday},
		input:     ti,
	}
}

type entriesLoadedMsg struct {
	result *service.ListResult
	err    error
}

type entryAddedMsg struct {
	entry *entry.Entry
	err   error
}

type deleteTargetMsg struct {
	entry *entry.Entry
	err   error
}

type entryDeletedMsg struct {
	entry entry.Entry
	err   error
}

// Init implements tea.Model
func (m EntriesModel) Init() tea.Cmd {
	return m.loadEntries()
}

// Update implements tea.Model
func (m EntriesModel) Update(msg tea.Msg) (EntriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case entryModeAdd:
			return m.handleAddMode(msg)
		case entryModeDelete:
			return m.handleDeleteMode(msg)
		}
		return m.handleNormalMode(msg)

	case entriesLoadedMsg:
		m.err = msg.err
		m.result = msg.result
		if m.result != nil && m.cursor >= len(m.result.Entries) {
			m.cursor = max(len(m.result.Entries)-1, 0)
		}
		return m, nil

	case entryAddedMsg:
		if msg.err != nil {
			m.formErr = msg.err
			return m, nil
		}
		m.mode = entryModeNormal
		m.formErr = nil
		m.input.Blur()
		m.input.SetValue("")
		m.notice = "Logged: " + cli.FormatEntryLine(*msg.entry, m.services.Entry.Location(), false)
		return m, m.loadEntries()

	case deleteTargetMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.target = msg.entry
		m.mode = entryModeDelete
		return m, nil

	case entryDeletedMsg:
		m.mode = entryModeNormal
		m.target = nil
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.notice = "Deleted: " + cli.FormatEntryLine(msg.entry, m.services.Entry.Location(), true)
		return m, m.loadEntries()

	case ui.EntriesChangedMsg:
		return m, m.loadEntries()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.mode == entryModeAdd {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m EntriesModel) handleNormalMode(msg tea.KeyMsg) (EntriesModel, tea.Cmd) {
	if dr, ok := dateRangeForKey(m.keys, msg); ok {
		m.dateRange = dr
		m.cursor = 0
		m.notice = ""
		return m, m.loadEntries()
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.result != nil && m.cursor < len(m.result.Entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.New):
		m.mode = entryModeAdd
		m.formErr = nil
		m.notice = ""
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		if m.result == nil || len(m.result.Entries) == 0 {
			return m, nil
		}
		m.notice = ""
		return m, m.resolveDeleteTarget(m.result.Entries[m.cursor])
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadEntries()
	}
	return m, nil
}

func (m EntriesModel) handleAddMode(msg tea.KeyMsg) (EntriesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		raw := strings.TrimSpace(m.input.Value())
		if raw == "" {
			return m, nil
		}
		return m, m.addEntry(raw)
	case key.Matches(msg, m.keys.Back):
		m.mode = entryModeNormal
		m.formErr = nil
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m EntriesModel) handleDeleteMode(msg tea.KeyMsg) (EntriesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.target == nil {
			m.mode = entryModeNormal
			return m, nil
		}
		return m, m.deleteEntry(*m.target)
	case key.Matches(msg, m.keys.Back), msg.String() == "n", msg.String() == "N":
		m.mode = entryModeNormal
		m.target = nil
	}
	return m, nil
}

// View implements tea.Model
func (m EntriesModel) View() string {
	switch m.mode {
	case entryModeAdd:
		return m.renderAddForm()
	case entryModeDelete:
		return m.renderDeleteConfirm()
	}

	var b strings.Builder
	period := "today"
	if m.result != nil {
		period = m.result.Period
	}
	b.WriteString(m.styles.ViewTitle.Render("Entries for " + period))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(renderError(m.err, m.services.Entry.Location(), m.styles))
		b.WriteString("\n\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.Success.Render(m.notice))
		b.WriteString("\n\n")
	}

	if m.result == nil {
		b.WriteString("Loading...")
		return b.String()
	}

	if len(m.result.Entries) == 0 {
		b.WriteString(m.styles.StatLabel.Render("No entries found"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Press 'n' to add a new entry"))
		return b.String()
	}

	loc := m.services.Entry.Location()
	b.WriteString(RenderEntryList(m.result.Entries, loc, m.styles, EntryRenderOptions{
		ShowDate: cli.SpansMultipleDays(m.result.Entries, loc),
		Width:    m.width,
		Cursor:   m.cursor,
	}))

	b.WriteString(strings.Repeat("─", min(50, max(m.width, 1))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %s (%d %s)",
		cli.FormatDuration(m.result.Total),
		len(m.result.Entries),
		cli.Pluralize("entry", len(m.result.Entries))))

	return b.String()
}

func (m EntriesModel) renderAddForm() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("New Entry"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.StatLabel.Render("<description> @<category> from <start> (to <end> | for <duration>)"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.formErr != nil {
		b.WriteString(renderError(m.formErr, m.services.Entry.Location(), m.styles))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.StatLabel.Render("Enter to save, Esc to cancel"))
	return b.String()
}

func (m EntriesModel) renderDeleteConfirm() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("Delete Entry"))
	b.WriteString("\n\n")

	if m.target != nil {
		loc := m.services.Entry.Location()
		b.WriteString(m.styles.Warning.Render("Delete this entry?"))
		b.WriteString("\n\n")
		b.WriteString(renderStatLine(m.styles, "Span:", cli.FormatSpan(*m.target, loc, true)))
		b.WriteString(renderStatLine(m.styles, "Entry:", cli.FormatEntry(*m.target)))
		b.WriteString(renderStatLine(m.styles, "Duration:", cli.FormatDuration(m.target.Duration())))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.StatLabel.Render("Press Y to confirm, N or Esc to cancel"))
	return b.String()
}

// SetSize sets the view dimensions
func (m *EntriesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// DateRangeType returns the type of the range on screen.
func (m EntriesModel) DateRangeType() service.DateRange {
	return m.dateRange.Type
}

// IsInputMode reports whether the view captures keyboard input.
func (m EntriesModel) IsInputMode() bool {
	return m.mode != entryModeNormal
}

func (m EntriesModel) loadEntries() tea.Cmd {
	return func() tea.Msg {
		result, err := m.services.Entry.List(m.ctx, m.dateRange, nil)
		return entriesLoadedMsg{result: result, err: err}
	}
}

func (m EntriesModel) addEntry(raw string) tea.Cmd {
	return func() tea.Msg {
		e, err := m.services.Entry.CreateFromInput(m.ctx, raw)
		return entryAddedMsg{entry: e, err: err}
	}
}

// resolveDeleteTarget looks up the stored entry behind a listed one, which
// may be clipped to the range on screen.
func (m EntriesModel) resolveDeleteTarget(listed entry.Entry) tea.Cmd {
	return func() tea.Msg {
		e, err := m.services.Entry.FindContaining(m.ctx, listed.Start)
		return deleteTargetMsg{entry: e, err: err}
	}
}

func (m EntriesModel) deleteEntry(e entry.Entry) tea.Cmd {
	return func() tea.Msg {
		err := m.services.Entry.Delete(m.ctx, e)
		return entryDeletedMsg{entry: e, err: err}
	}
}
