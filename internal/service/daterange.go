package service

import (
	"fmt"
	"time"

	"github.com/xolan/logbook/internal/timeutil"
)

// resolveDateRange converts a DateRangeSpec to a window and a period
// description. now carries the display location.
func resolveDateRange(spec DateRangeSpec, now time.Time, weekStart time.Weekday) (timeutil.Window, string, error) {
	switch spec.Type {
	case DateRangeToday:
		return timeutil.Today(now), "today", nil
	case DateRangeYesterday:
		return timeutil.Yesterday(now), "yesterday", nil
	case DateRangeThisWeek:
		return timeutil.ThisWeek(now, weekStart), "this week", nil
	case DateRangePrevWeek:
		return timeutil.LastWeek(now, weekStart), "last week", nil
	case DateRangeThisMonth:
		return timeutil.ThisMonth(now), "this month", nil
	case DateRangePrevMonth:
		return timeutil.LastMonth(now), "last month", nil
	case DateRangeLast:
		if spec.LastDays <= 0 {
			return timeutil.Window{}, "", fmt.Errorf("%w: must be positive, got %d", ErrInvalidLastDays, spec.LastDays)
		}
		return timeutil.Days(now, spec.LastDays), fmt.Sprintf("last %d days", spec.LastDays), nil
	case DateRangeCustom:
		w := timeutil.NewWindow(spec.From, spec.To)
		return w, formatDateRangeForDisplay(w, now.Location()), nil
	case DateRangeAll:
		return timeutil.AllTime(), "all time", nil
	default:
		return timeutil.Today(now), "today", nil
	}
}

// previousWindow returns the period of the same kind just before w.
func previousWindow(spec DateRangeSpec, w timeutil.Window, now time.Time, weekStart time.Weekday) timeutil.Window {
	switch spec.Type {
	case DateRangeThisWeek:
		return timeutil.LastWeek(now, weekStart)
	case DateRangePrevWeek:
		return timeutil.LastWeek(w.Start.In(now.Location()), weekStart)
	case DateRangeThisMonth:
		return timeutil.LastMonth(now)
	case DateRangePrevMonth:
		return timeutil.LastMonth(w.Start.In(now.Location()))
	case DateRangeAll:
		return timeutil.Window{}
	default:
		return timeutil.NewWindow(w.Start.Add(-w.Duration()), w.Start)
	}
}

// formatDateRangeForDisplay formats a half-open window for human-readable
// display; the last day shown is the one containing End minus one tick.
func formatDateRangeForDisplay(w timeutil.Window, loc *time.Location) string {
	if w.Empty() {
		return "empty range"
	}
	start := w.Start.In(loc)
	last := w.End.Add(-time.Nanosecond).In(loc)
	if start.Format("2006-01-02") == last.Format("2006-01-02") {
		return start.Format("Mon, Jan 2, 2006")
	}
	if start.Year() == last.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), last.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), last.Format("Jan 2, 2006"))
}
