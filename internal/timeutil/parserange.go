package timeutil

import (
	"fmt"
	"time"
)

// ParseDateRangeFlags parses date range flags into a window.
// --to names the last included day. A missing --from reaches back to
// Earliest and a missing --to ends with the day containing now. now also
// carries the location dates are read in.
// Returns an error if both lastDays and from/to are specified.
func ParseDateRangeFlags(fromStr, toStr string, lastDays int, now time.Time) (Window, error) {
	if lastDays > 0 && (fromStr != "" || toStr != "") {
		return Window{}, fmt.Errorf("cannot use --last with --from or --to")
	}
	if lastDays < 0 {
		return Window{}, fmt.Errorf("invalid --last value: must be positive, got %d", lastDays)
	}

	if lastDays > 0 {
		return Days(now, lastDays), nil
	}

	loc := now.Location()
	w := Window{Start: Earliest, End: Day(now).End}

	var from, to time.Time
	if fromStr != "" {
		d, err := ParseDate(fromStr, loc)
		if err != nil {
			return Window{}, fmt.Errorf("invalid --from date: %w", err)
		}
		from = d
		w.Start = d.UTC()
	}

	if toStr != "" {
		d, err := ParseDate(toStr, loc)
		if err != nil {
			return Window{}, fmt.Errorf("invalid --to date: %w", err)
		}
		to = d
		w.End = Day(d).End
	}

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return Window{}, fmt.Errorf("--from date (%s) is after --to date (%s)",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	if w.Empty() {
		return Window{}, fmt.Errorf("--from date (%s) is in the future", from.Format("2006-01-02"))
	}

	return w, nil
}
