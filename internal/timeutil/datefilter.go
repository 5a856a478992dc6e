// Package timeutil turns calendar periods and user supplied dates into
// half-open UTC windows suitable for intersection queries.
package timeutil

import (
	"time"

	"github.com/xolan/logbook/internal/entry"
)

// Window is a half-open interval [Start, End) in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow converts both bounds to UTC.
func NewWindow(start, end time.Time) Window {
	return Window{Start: start.UTC(), End: end.UTC()}
}

// Empty reports whether the window contains no instant.
func (w Window) Empty() bool {
	return !w.End.After(w.Start)
}

// Contains reports whether t falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Earliest and Latest are the bounds an entry may hold.
var (
	Earliest = entry.MinTime
	Latest   = entry.MaxTime
)

// AllTime returns the widest window the stores can answer for.
func AllTime() Window {
	return Window{Start: Earliest, End: Latest}
}

// StartOfDay returns midnight (00:00:00) of the given day in the same timezone
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns 00:00:00 of the first day of the week containing t.
// weekStart is time.Monday (ISO 8601) or time.Sunday; any other value is
// treated as Monday.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	if weekStart != time.Sunday {
		weekStart = time.Monday
	}
	offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// StartOfMonth returns the first day of the month at 00:00:00 in the same timezone
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Day returns the calendar day containing t, measured in t's location.
// Days spanning a DST change are 23 or 25 hours long.
func Day(t time.Time) Window {
	start := StartOfDay(t)
	return NewWindow(start, start.AddDate(0, 0, 1))
}

// Week returns the calendar week containing t.
func Week(t time.Time, weekStart time.Weekday) Window {
	start := StartOfWeek(t, weekStart)
	return NewWindow(start, start.AddDate(0, 0, 7))
}

// Month returns the calendar month containing t.
func Month(t time.Time) Window {
	start := StartOfMonth(t)
	return NewWindow(start, start.AddDate(0, 1, 0))
}

// Days returns n whole days ending with the day containing t.
func Days(t time.Time, n int) Window {
	end := StartOfDay(t).AddDate(0, 0, 1)
	return NewWindow(end.AddDate(0, 0, -n), end)
}

// Today returns the day containing now.
func Today(now time.Time) Window {
	return Day(now)
}

// Yesterday returns the day before now.
func Yesterday(now time.Time) Window {
	return Day(StartOfDay(now).AddDate(0, 0, -1))
}

// ThisWeek returns the week containing now.
func ThisWeek(now time.Time, weekStart time.Weekday) Window {
	return Week(now, weekStart)
}

// LastWeek returns the week before the one containing now.
func LastWeek(now time.Time, weekStart time.Weekday) Window {
	return Week(StartOfWeek(now, weekStart).AddDate(0, 0, -7), weekStart)
}

// ThisMonth returns the month containing now.
func ThisMonth(now time.Time) Window {
	return Month(now)
}

// LastMonth returns the month before the one containing now.
func LastMonth(now time.Time) Window {
	// Step back from the first of the month so that March 31 does not
	// normalise to March 3.
	return Month(StartOfMonth(now).AddDate(0, -1, 0))
}
