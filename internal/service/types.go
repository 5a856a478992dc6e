// Package service provides the business logic layer for logbook.
// It wraps the interval controller, the selected storage backend, the timer
// and the configuration, providing one API for the CLI, the TUI and the
// HTTP server.
package service

import (
	"time"

	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/stats"
	"github.com/xolan/logbook/internal/timer"
	"github.com/xolan/logbook/internal/timeutil"
)

// DateRange represents a predefined or custom date range for filtering entries
type DateRange int

const (
	DateRangeToday DateRange = iota
	DateRangeYesterday
	DateRangeThisWeek
	DateRangePrevWeek
	DateRangeThisMonth
	DateRangePrevMonth
	DateRangeLast   // Last N days (requires LastDays field)
	DateRangeCustom // [From, To) (requires From and To)
	DateRangeAll
)

// DateRangeSpec specifies a date range for filtering entries
type DateRangeSpec struct {
	Type     DateRange
	LastDays int       // Used when Type is DateRangeLast
	From     time.Time // Used when Type is DateRangeCustom
	To       time.Time // Used when Type is DateRangeCustom, exclusive
}

// CustomRange is a DateRangeSpec for the window w.
func CustomRange(w timeutil.Window) DateRangeSpec {
	return DateRangeSpec{Type: DateRangeCustom, From: w.Start, To: w.End}
}

// ListResult contains the results of listing entries
type ListResult struct {
	Entries []entry.Entry // clipped to Window, sorted
	Period  string        // Human-readable period description
	Window  timeutil.Window
	Total   time.Duration
}

// TimerStatus represents the current state of the timer
type TimerStatus struct {
	Running     bool
	State       *timer.TimerState
	ElapsedTime time.Duration
}

// ReportData contains totals per category for a period
type ReportData struct {
	Statistics stats.Statistics
	Categories []stats.CategoryBreakdown
	Period     string
	Window     timeutil.Window

	// Previous covers the period of the same kind just before Window.
	Previous       stats.Statistics
	PreviousWindow timeutil.Window
}
