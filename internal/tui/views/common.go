// Package views holds the tab views of the TUI. Every view keeps its own
// state and talks to the services through tea.Cmd functions.
package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/tui/ui"
)

// EntryRenderOptions configures how entries are rendered
type EntryRenderOptions struct {
	ShowDate bool // prefix the start date
	Width    int
	Cursor   int // -1 for none
}

// RenderEntryList renders one aligned line per entry: span, description
// with category and duration.
func RenderEntryList(entries []entry.Entry, loc *time.Location, styles ui.Styles, opts EntryRenderOptions) string {
	if len(entries) == 0 {
		return ""
	}

	spans := make([]string, len(entries))
	spanWidth := 0
	for i, e := range entries {
		spans[i] = cli.FormatSpan(e, loc, opts.ShowDate)
		spanWidth = max(spanWidth, len(spans[i]))
	}

	descWidth := max(opts.Width-spanWidth-16, 20)

	var b strings.Builder
	for i, e := range entries {
		style := styles.EntryNormal
		if i == opts.Cursor {
			style = styles.EntrySelected
		}

		desc := e.Description
		if desc != "" {
			desc += " "
		}
		plain := desc + "@" + e.Category
		if n := len([]rune(plain)); n > descWidth {
			plain = string([]rune(plain)[:descWidth-1]) + "…"
		} else {
			plain += strings.Repeat(" ", descWidth-n)
		}

		line := fmt.Sprintf("%s  %s %s",
			styles.EntrySpan.Render(fmt.Sprintf("%-*s", spanWidth, spans[i])),
			styles.EntryDesc.Render(plain),
			styles.EntryDuration.Render(cli.FormatDuration(e.Duration())))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderError formats err for display. Conflicts list the clipped stored
// entries they collided with.
func renderError(err error, loc *time.Location, styles ui.Styles) string {
	var conflict *controller.ConflictError
	var validation *entry.ValidationError

	var b strings.Builder
	switch {
	case errors.As(err, &conflict):
		b.WriteString(styles.Error.Render(fmt.Sprintf("Entry overlaps %d stored %s:",
			len(conflict.Conflicts), cli.Pluralize("entry", len(conflict.Conflicts)))))
		for _, line := range cli.FormatConflicts(conflict.Conflicts, loc) {
			b.WriteString("\n")
			b.WriteString(styles.Warning.Render(line))
		}
	case errors.As(err, &validation):
		b.WriteString(styles.Error.Render(fmt.Sprintf("Invalid %s: %s", validation.Field, validation.Reason)))
	case errors.Is(err, controller.ErrRetractUnsupported):
		b.WriteString(styles.Error.Render("This backend cannot delete entries"))
	default:
		b.WriteString(styles.Error.Render(fmt.Sprintf("Error: %v", err)))
	}
	return b.String()
}

func renderStatLine(styles ui.Styles, label, value string) string {
	return styles.StatLabel.Render(padLabel(label)) + " " + styles.StatValue.Render(value) + "\n"
}

func padLabel(label string) string {
	return fmt.Sprintf("%-18s", label)
}

// dateRangeForKey maps the date range shortcuts to a range.
func dateRangeForKey(keys ui.KeyMap, msg tea.KeyMsg) (service.DateRangeSpec, bool) {
	switch {
	case key.Matches(msg, keys.Today):
		return service.DateRangeSpec{Type: service.DateRangeToday}, true
	case key.Matches(msg, keys.Yesterday):
		return service.DateRangeSpec{Type: service.DateRangeYesterday}, true
	case key.Matches(msg, keys.ThisWeek):
		return service.DateRangeSpec{Type: service.DateRangeThisWeek}, true
	case key.Matches(msg, keys.PrevWeek):
		return service.DateRangeSpec{Type: service.DateRangePrevWeek}, true
	case key.Matches(msg, keys.ThisMonth):
		return service.DateRangeSpec{Type: service.DateRangeThisMonth}, true
	case key.Matches(msg, keys.PrevMonth):
		return service.DateRangeSpec{Type: service.DateRangePrevMonth}, true
	}
	return service.DateRangeSpec{}, false
}
