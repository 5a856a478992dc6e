package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a date string in YYYY-MM-DD or DD/MM/YYYY format.
// Returns the parsed date at midnight (start of day) in loc.
// For ambiguous dates (like 05/06/2024), ISO format (YYYY-MM-DD) is preferred.
//
// Valid inputs:
//   - "2024-01-15" (ISO format)
//   - "15/01/2024" (European format)
//
// Invalid inputs return an error with suggested formats.
func ParseDate(input string, loc *time.Location) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty (use format YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15 or 15/01/2024)")
	}
	if loc == nil {
		loc = time.Local
	}

	// Try ISO format first (YYYY-MM-DD) - preferred for ambiguous dates
	t, err := time.ParseInLocation("2006-01-02", input, loc)
	if err == nil {
		return StartOfDay(t), nil
	}

	t, err = time.ParseInLocation("02/01/2006", input, loc)
	if err == nil {
		return StartOfDay(t), nil
	}

	return time.Time{}, buildDateParseError(input)
}

var (
	isoPartialRe    = regexp.MustCompile(`^\d{4}-\d{1,2}$`)          // YYYY-MM (missing day)
	yearOnlyRe      = regexp.MustCompile(`^\d{4}$`)                  // YYYY (year only)
	isoPartialDayRe = regexp.MustCompile(`^\d{1,2}-\d{1,2}$`)        // MM-DD or DD-MM (missing year)
	euroPartialRe   = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)        // DD/MM (missing year)
	tooManyPartsRe  = regexp.MustCompile(`^\d+[-/]\d+[-/]\d+[-/]`)   // Too many separators
	relativeDaysRe  = regexp.MustCompile(`^last\s(\d+)\sdays?$`)     // last N days
	clockRe         = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`) // HH:MM or HH:MM:SS
)

// buildDateParseError creates a helpful error message based on the input pattern
func buildDateParseError(input string) error {
	switch {
	case yearOnlyRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing month and day (use format YYYY-MM-DD, e.g., %s-01-15)", input, input)
	case isoPartialRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing day (use format YYYY-MM-DD, e.g., %s-15)", input, input)
	case isoPartialDayRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing year (use format YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-%s)", input, input)
	case euroPartialRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing year (use format DD/MM/YYYY, e.g., %s/2024)", input, input)
	case tooManyPartsRe.MatchString(input):
		return fmt.Errorf("invalid date '%s': too many date parts (use format YYYY-MM-DD or DD/MM/YYYY)", input)
	default:
		return fmt.Errorf("invalid date format '%s' (use YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15 or 15/01/2024)", input)
	}
}

// ParseRelativeDays parses relative day expressions like "last N days".
// The window covers N complete days ending with the day containing now.
//
// Valid inputs:
//   - "last 7 days"
//   - "last 30 days"
//   - "last 1 day" (today only)
func ParseRelativeDays(input string, now time.Time) (Window, error) {
	if input == "" {
		return Window{}, fmt.Errorf("relative date cannot be empty (use format 'last N days', e.g., 'last 7 days')")
	}

	matches := relativeDaysRe.FindStringSubmatch(input)
	if matches == nil {
		return Window{}, fmt.Errorf("invalid format '%s' (use 'last N days' or 'last N day', e.g., 'last 7 days', 'last 30 days', 'last 1 day')", input)
	}

	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return Window{}, fmt.Errorf("invalid number in relative date: %s", matches[1])
	}
	if n <= 0 {
		return Window{}, fmt.Errorf("invalid number of days: must be positive, got %d", n)
	}

	return Days(now, n), nil
}

// instantLayouts are tried in order for full date-time input without an
// explicit offset.
var instantLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ParseInstant parses a point in time and returns it in UTC.
//
// ref supplies the location for input without an offset and the day for
// clock-only input. Accepted forms:
//   - "now"
//   - "09:30" or "09:30:15" (on ref's day)
//   - "2024-01-15 09:30" (also with seconds or a T separator)
//   - RFC 3339, e.g. "2024-01-15T09:30:00Z" (its own offset wins)
func ParseInstant(input string, ref time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("time cannot be empty (use HH:MM, YYYY-MM-DD HH:MM or RFC 3339, e.g., 09:30 or 2024-01-15 09:30)")
	}
	if strings.EqualFold(input, "now") {
		return ref.UTC(), nil
	}

	if clockRe.MatchString(input) {
		return parseClock(input, ref)
	}

	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, input, ref.Location()); err == nil {
			return t.UTC(), nil
		}
	}

	if _, err := ParseDate(input, ref.Location()); err == nil {
		return time.Time{}, fmt.Errorf("incomplete time '%s': missing time of day (use YYYY-MM-DD HH:MM, e.g., %s 09:00)", input, input)
	}
	return time.Time{}, fmt.Errorf("invalid time format '%s' (use HH:MM, YYYY-MM-DD HH:MM or RFC 3339, e.g., 09:30 or 2024-01-15 09:30)", input)
}

func parseClock(input string, ref time.Time) (time.Time, error) {
	parts := strings.Split(input, ":")
	values := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time '%s'", input)
		}
		values[i] = v
	}
	hour, minute, second := values[0], values[1], values[2]
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("invalid time '%s': hour must be 0-23 and minutes 0-59", input)
	}
	t := time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, second, 0, ref.Location())
	return t.UTC(), nil
}
