// Package cli provides the CLI presentation layer for logbook.
// It handles command-line output formatting and user interaction.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/storage"
)

// FormatDuration formats a duration as a human-readable string, rounded
// down to the minute. Spans shorter than a minute are shown in seconds.
// Examples: "45s", "30m", "2h", "1h 30m"
func FormatDuration(d time.Duration) string {
	if d > 0 && d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	totalMinutes := int(d.Minutes())
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm", totalMinutes)
	}
	hours := totalMinutes / 60
	mins := totalMinutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatEntryForLog formats a description with its category for display.
// Returns format like: "description [@category]", or "@category" when the
// description is empty.
func FormatEntryForLog(description, category string) string {
	if description == "" {
		return "@" + category
	}
	return fmt.Sprintf("%s [@%s]", description, category)
}

// FormatEntry formats an entry's description and category for display
func FormatEntry(e entry.Entry) string {
	return FormatEntryForLog(e.Description, e.Category)
}

// FormatSpan formats [Start, End) in loc as "09:00-10:30". An end on a later
// day carries its date: "23:00-Jan 16 01:00". With withDate the start date
// is prefixed.
func FormatSpan(e entry.Entry, loc *time.Location, withDate bool) string {
	start := e.Start.In(loc)
	end := e.End.In(loc)

	endText := end.Format("15:04")
	if end.Format("2006-01-02") != start.Format("2006-01-02") {
		endText = end.Format("Jan 2 15:04")
	}
	span := fmt.Sprintf("%s-%s", start.Format("15:04"), endText)
	if withDate {
		return start.Format("2006-01-02") + " " + span
	}
	return span
}

// FormatEntryLine formats one list line: span, description and duration.
func FormatEntryLine(e entry.Entry, loc *time.Location, withDate bool) string {
	return fmt.Sprintf("%s  %s (%s)", FormatSpan(e, loc, withDate), FormatEntry(e), FormatDuration(e.Duration()))
}

// FormatCorruptionWarning formats a ParseWarning into a human-readable string
func FormatCorruptionWarning(warning storage.ParseWarning) string {
	content := warning.Content
	if len(content) > 50 {
		content = content[:47] + "..."
	}
	return fmt.Sprintf("  Line %d: %s (error: %s)", warning.LineNumber, content, warning.Error)
}

// BuildPeriodWithFilters appends filter information to the period description.
// Example: "today" -> "today (@work \"standup\")"
func BuildPeriodWithFilters(period string, f *filter.Filter) string {
	if f.IsEmpty() {
		return period
	}
	return fmt.Sprintf("%s (%s)", period, f.String())
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	if strings.HasSuffix(word, "y") {
		return strings.TrimSuffix(word, "y") + "ies"
	}
	return word + "s"
}

// SpansMultipleDays checks if entries start on more than one calendar day in loc
func SpansMultipleDays(entries []entry.Entry, loc *time.Location) bool {
	if len(entries) < 2 {
		return false
	}
	firstDay := entries[0].Start.In(loc).Format("2006-01-02")
	for _, e := range entries[1:] {
		if e.Start.In(loc).Format("2006-01-02") != firstDay {
			return true
		}
	}
	return false
}

// FormatTimerStartTime formats the timer start time for display, relative
// to now and in now's location.
func FormatTimerStartTime(startedAt, now time.Time) string {
	startedAt = startedAt.In(now.Location())
	startTime := startedAt.Format("15:04")

	isToday := startedAt.Year() == now.Year() &&
		startedAt.Month() == now.Month() &&
		startedAt.Day() == now.Day()

	if isToday {
		return fmt.Sprintf("today at %s", startTime)
	}
	return fmt.Sprintf("%s at %s", startedAt.Format("Mon Jan 2"), startTime)
}

// FormatConflicts formats the stored entries a new entry collided with,
// one indented line each.
func FormatConflicts(conflicts []entry.Entry, loc *time.Location) []string {
	lines := make([]string, 0, len(conflicts))
	withDate := SpansMultipleDays(conflicts, loc)
	for _, c := range conflicts {
		lines = append(lines, "  "+FormatEntryLine(c, loc, withDate))
	}
	return lines
}
