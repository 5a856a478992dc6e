package views

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/tui/ui"
)

// TimerModel shows the running timer and starts, stops or cancels it.
type TimerModel struct {
	ctx      context.Context
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	width  int
	height int
	status *service.TimerStatus
	err    error
	notice string

	inputMode bool
	input     textinput.Model
}

// NewTimerModel creates the timer view.
func NewTimerModel(ctx context.Context, services *service.Services, styles ui.Styles, keys ui.KeyMap) TimerModel {
	ti := textinput.New()
	ti.Placeholder = "code review @work"
	ti.CharLimit = 200
	ti.Width = 50

	return TimerModel{
		ctx:      ctx,
		services: services,
		styles:   styles,
		keys:     keys,
		input:    ti,
	}
}

type timerStatusMsg struct {
	status *service.TimerStatus
	notice string
	err    error
}

// timerStoppedMsg reports the entry a stopped timer was stored as.
type timerStoppedMsg struct {
	entry *entry.Entry
	err   error
}

type timerTickMsg time.Time

// Init implements tea.Model
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(m.loadStatus(), m.tickTimer())
}

// Update implements tea.Model
func (m TimerModel) Update(msg tea.Msg) (TimerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputMode(msg)
		}

		running := m.status != nil && m.status.Running
		switch {
		case key.Matches(msg, m.keys.Start):
			if running {
				return m, nil
			}
			m.inputMode = true
			m.err = nil
			m.notice = ""
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Stop):
			if running {
				return m, m.stopTimer()
			}
		case key.Matches(msg, m.keys.Cancel):
			if running {
				return m, m.cancelTimer()
			}
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadStatus()
		}
		return m, nil

	case timerStatusMsg:
		m.err = msg.err
		if msg.status != nil {
			m.status = msg.status
		}
		if msg.notice != "" {
			m.notice = msg.notice
		}
		if msg.err == nil {
			m.inputMode = false
			m.input.Blur()
		}
		return m, nil

	case timerStoppedMsg:
		if msg.err != nil {
			// The timer keeps running when the span conflicts.
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = "Stopped: " + cli.FormatEntryLine(*msg.entry, m.services.Entry.Location(), false)
		return m, tea.Batch(m.loadStatus(), func() tea.Msg { return ui.EntriesChangedMsg{} })

	case timerTickMsg:
		if m.status != nil && m.status.Running {
			m.status.ElapsedTime = m.status.State.Elapsed(time.Time(msg))
		}
		return m, m.tickTimer()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.inputMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m TimerModel) handleInputMode(msg tea.KeyMsg) (TimerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		desc := strings.TrimSpace(m.input.Value())
		if desc == "" {
			return m, nil
		}
		return m, m.startTimer(desc)
	case key.Matches(msg, m.keys.Back):
		m.inputMode = false
		m.err = nil
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m TimerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Timer"))
	b.WriteString("\n\n")

	if m.inputMode {
		b.WriteString(m.styles.StatLabel.Render("Description with @category:"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(renderError(m.err, m.services.Entry.Location(), m.styles))
			b.WriteString("\n\n")
		}
		b.WriteString(m.styles.StatLabel.Render("Enter to start, Esc to cancel"))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(renderError(m.err, m.services.Entry.Location(), m.styles))
		b.WriteString("\n\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.Success.Render(m.notice))
		b.WriteString("\n\n")
	}

	if m.status == nil || !m.status.Running {
		b.WriteString(m.styles.TimerStopped.Render("No timer running"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Press 's' to start a new timer"))
		return b.String()
	}

	state := m.status.State
	b.WriteString(m.styles.TimerRunning.Render("● Timer Running"))
	b.WriteString("\n\n")
	b.WriteString(renderStatLine(m.styles, "Task:", cli.FormatEntryForLog(state.Description, state.Category)))
	b.WriteString(renderStatLine(m.styles, "Started:", cli.FormatTimerStartTime(state.StartedAt, m.services.Entry.Now())))
	b.WriteString(m.styles.StatLabel.Render(padLabel("Elapsed:")) + " " +
		m.styles.TimerElapsed.Render(cli.FormatDuration(m.status.ElapsedTime)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.StatLabel.Render("Press 'x' to stop or 'c' to discard the timer"))

	return b.String()
}

// SetSize sets the view dimensions
func (m *TimerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode reports whether the view captures keyboard input.
func (m TimerModel) IsInputMode() bool {
	return m.inputMode
}

func (m TimerModel) loadStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := m.services.Timer.Status()
		return timerStatusMsg{status: status, err: err}
	}
}

func (m TimerModel) startTimer(description string) tea.Cmd {
	return func() tea.Msg {
		state, _, err := m.services.Timer.Start(description, false)
		if err != nil {
			if errors.Is(err, service.ErrTimerAlreadyRunning) {
				status, _ := m.services.Timer.Status()
				return timerStatusMsg{status: status, err: err}
			}
			return timerStatusMsg{err: err}
		}
		status, err := m.services.Timer.Status()
		return timerStatusMsg{
			status: status,
			notice: "Timer started: " + cli.FormatEntryForLog(state.Description, state.Category),
			err:    err,
		}
	}
}

func (m TimerModel) stopTimer() tea.Cmd {
	return func() tea.Msg {
		e, _, err := m.services.Timer.Stop(m.ctx)
		return timerStoppedMsg{entry: e, err: err}
	}
}

func (m TimerModel) cancelTimer() tea.Cmd {
	return func() tea.Msg {
		state, err := m.services.Timer.Cancel()
		if err != nil {
			return timerStatusMsg{err: err}
		}
		status, err := m.services.Timer.Status()
		return timerStatusMsg{
			status: status,
			notice: "Timer cancelled: " + cli.FormatEntryForLog(state.Description, state.Category) +
				" (" + cli.FormatDuration(state.Elapsed(m.services.Entry.Now())) + " discarded)",
			err: err,
		}
	}
}

func (m TimerModel) tickTimer() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
