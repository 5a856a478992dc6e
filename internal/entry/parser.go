package entry

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Input parsing errors
var (
	ErrMissingCategory = errors.New("missing @category in input")
	ErrMissingFrom     = errors.New("missing 'from <start>' in input")
	ErrMissingEnd      = errors.New("missing 'to <end>' or 'for <duration>' in input")
)

// combinedTimePattern matches combined time duration in XhYm format (e.g., "1h30m", "2h15m")
var combinedTimePattern = regexp.MustCompile(`^(\d+)h(\d+)m$`)

// timePattern matches time duration in Yh (hours) or Ym (minutes) format
var timePattern = regexp.MustCompile(`^(\d+)(h|m)$`)

// MaxDurationMinutes is the maximum allowed duration for a "for <duration>" entry (24 hours)
const MaxDurationMinutes = 24 * 60

// ParseDuration parses a time duration string in Yh, Ym, or XhYm format
// and returns the duration in minutes.
// Valid inputs: "2h" (returns 120), "30m" (returns 30), "1h30m" (returns 90)
// Invalid inputs: "invalid", "0h", "0m", "0h0m", values exceeding 24h
func ParseDuration(input string) (minutes int, err error) {
	if m := combinedTimePattern.FindStringSubmatch(input); m != nil {
		hours, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return checkMinutes(hours*60 + mins)
	}

	m := timePattern.FindStringSubmatch(input)
	if m == nil {
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
	}
	if m[2] == "h" {
		value *= 60
	}
	return checkMinutes(value)
}

func checkMinutes(minutes int) (int, error) {
	if minutes == 0 {
		return 0, fmt.Errorf("invalid duration: duration cannot be zero")
	}
	if minutes > MaxDurationMinutes {
		return 0, fmt.Errorf("invalid duration: exceeds maximum of 24 hours (%d minutes)", MaxDurationMinutes)
	}
	return minutes, nil
}

// categoryPattern matches @category syntax (e.g., "@work", "@side-project", "@reading_2")
var categoryPattern = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)

var spacePattern = regexp.MustCompile(`\s+`)

// ParseCategory extracts the @category token from a description.
// If several tokens are present the last one wins.
// Example: "fix login bug @work" -> ("fix login bug", "work")
func ParseCategory(description string) (cleanDesc string, category string) {
	matches := categoryPattern.FindAllStringSubmatch(description, -1)
	if len(matches) > 0 {
		category = matches[len(matches)-1][1]
	}
	cleanDesc = categoryPattern.ReplaceAllString(description, "")
	cleanDesc = spacePattern.ReplaceAllString(strings.TrimSpace(cleanDesc), " ")
	return cleanDesc, category
}

// Input is the parsed form of a free-text entry such as
// "standup @work from 09:00 to 09:15" or "reading @home from 21:00 for 45m".
// Times are kept as text; resolving them needs a location and a reference day.
type Input struct {
	Description string
	Category    string
	StartText   string
	EndText     string        // set for "to <end>"
	Duration    time.Duration // set for "for <duration>"
}

// ParseInput splits free-text input into its parts.
func ParseInput(raw string) (Input, error) {
	lower := strings.ToLower(raw)
	fromIdx := strings.LastIndex(lower, " from ")
	if fromIdx == -1 {
		return Input{}, ErrMissingFrom
	}
	head := strings.TrimSpace(raw[:fromIdx])
	tail := strings.TrimSpace(raw[fromIdx+len(" from "):])

	desc, category := ParseCategory(head)
	if category == "" {
		return Input{}, ErrMissingCategory
	}

	in := Input{Description: desc, Category: category}
	tailLower := strings.ToLower(tail)
	if idx := strings.LastIndex(tailLower, " to "); idx != -1 {
		in.StartText = strings.TrimSpace(tail[:idx])
		in.EndText = strings.TrimSpace(tail[idx+len(" to "):])
	} else if idx := strings.LastIndex(tailLower, " for "); idx != -1 {
		in.StartText = strings.TrimSpace(tail[:idx])
		minutes, err := ParseDuration(strings.TrimSpace(tail[idx+len(" for "):]))
		if err != nil {
			return Input{}, err
		}
		in.Duration = time.Duration(minutes) * time.Minute
	} else {
		return Input{}, ErrMissingEnd
	}

	if in.StartText == "" {
		return Input{}, ErrMissingFrom
	}
	if in.EndText == "" && in.Duration == 0 {
		return Input{}, ErrMissingEnd
	}
	return in, nil
}
