package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/storage"
)

func mkEntry(t *testing.T, start, end time.Time, category, description string) entry.Entry {
	t.Helper()
	e, err := entry.New(start, end, category, description)
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}
	return e
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{45 * time.Second, "45s"},
		{time.Minute, "1m"},
		{90 * time.Second, "1m"},
		{59 * time.Minute, "59m"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h 30m"},
		{26 * time.Hour, "26h"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			result := FormatDuration(tt.d)
			if result != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, result, tt.want)
			}
		})
	}
}

func TestFormatEntryForLog(t *testing.T) {
	tests := []struct {
		description string
		category    string
		want        string
	}{
		{"fix login bug", "work", "fix login bug [@work]"},
		{"", "sleep", "@sleep"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			result := FormatEntryForLog(tt.description, tt.category)
			if result != tt.want {
				t.Errorf("FormatEntryForLog(%q, %q) = %q, want %q", tt.description, tt.category, result, tt.want)
			}
		})
	}
}

func TestFormatSpan(t *testing.T) {
	day := func(d, h, m int) time.Time { return time.Date(2024, time.January, d, h, m, 0, 0, time.UTC) }
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	tests := []struct {
		name     string
		e        entry.Entry
		loc      *time.Location
		withDate bool
		want     string
	}{
		{"same day", mkEntry(t, day(15, 9, 0), day(15, 10, 30), "work", ""), time.UTC, false, "09:00-10:30"},
		{"with date", mkEntry(t, day(15, 9, 0), day(15, 10, 30), "work", ""), time.UTC, true, "2024-01-15 09:00-10:30"},
		{"across midnight", mkEntry(t, day(15, 23, 0), day(16, 1, 0), "sleep", ""), time.UTC, false, "23:00-Jan 16 01:00"},
		{"ends at midnight", mkEntry(t, day(15, 22, 0), day(16, 0, 0), "sleep", ""), time.UTC, false, "22:00-Jan 16 00:00"},
		{"shown in location", mkEntry(t, day(15, 22, 30), day(15, 23, 30), "work", ""), berlin, false, "23:30-Jan 16 00:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatSpan(tt.e, tt.loc, tt.withDate)
			if result != tt.want {
				t.Errorf("FormatSpan() = %q, want %q", result, tt.want)
			}
		})
	}
}

func TestFormatEntryLine(t *testing.T) {
	e := mkEntry(t,
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 9, 15, 0, 0, time.UTC),
		"work", "standup")

	if got := FormatEntryLine(e, time.UTC, false); got != "09:00-09:15  standup [@work] (15m)" {
		t.Errorf("FormatEntryLine() = %q", got)
	}
}

func TestFormatCorruptionWarning(t *testing.T) {
	short := FormatCorruptionWarning(storage.ParseWarning{LineNumber: 3, Content: "{bad", Error: "unexpected EOF"})
	if short != "  Line 3: {bad (error: unexpected EOF)" {
		t.Errorf("unexpected short warning: %q", short)
	}

	long := FormatCorruptionWarning(storage.ParseWarning{
		LineNumber: 42,
		Content:    strings.Repeat("x", 80),
		Error:      "invalid json",
	})
	if !strings.Contains(long, strings.Repeat("x", 47)+"...") || strings.Contains(long, strings.Repeat("x", 48)) {
		t.Errorf("expected content truncated to 47 characters: %q", long)
	}
}

func TestBuildPeriodWithFilters(t *testing.T) {
	tests := []struct {
		name   string
		period string
		filter *filter.Filter
		want   string
	}{
		{"no filter", "today", nil, "today"},
		{"empty filter", "today", filter.NewFilter("", ""), "today"},
		{"category", "today", filter.NewFilter("", "@work"), "today (@work)"},
		{"keyword", "this week", filter.NewFilter("standup", ""), `this week ("standup")`},
		{"both", "this week", filter.NewFilter("standup", "work"), `this week (@work "standup")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildPeriodWithFilters(tt.period, tt.filter)
			if result != tt.want {
				t.Errorf("BuildPeriodWithFilters() = %q, want %q", result, tt.want)
			}
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		word  string
		count int
		want  string
	}{
		{"entry", 0, "entries"},
		{"entry", 1, "entry"},
		{"entry", 2, "entries"},
		{"day", 1, "day"},
		{"pair", 5, "pairs"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			result := Pluralize(tt.word, tt.count)
			if result != tt.want {
				t.Errorf("Pluralize(%q, %d) = %q, want %q", tt.word, tt.count, result, tt.want)
			}
		})
	}
}

func TestSpansMultipleDays(t *testing.T) {
	a := mkEntry(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), "work", "")
	b := mkEntry(t, time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC), time.Date(2024, 1, 16, 0, 30, 0, 0, time.UTC), "work", "")
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	if SpansMultipleDays(nil, time.UTC) {
		t.Error("no entries should not span days")
	}
	if SpansMultipleDays([]entry.Entry{a}, time.UTC) {
		t.Error("a single entry should not span days")
	}
	if SpansMultipleDays([]entry.Entry{a, b}, time.UTC) {
		t.Error("entries starting on the same UTC day should not span days")
	}
	// 04:00 and 18:30 in New York.
	if SpansMultipleDays([]entry.Entry{a, b}, newYork) {
		t.Error("entries starting on the same New York day should not span days")
	}
	c := mkEntry(t, time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC), "work", "")
	if !SpansMultipleDays([]entry.Entry{a, c}, time.UTC) {
		t.Error("entries on different days should span days")
	}
}

func TestFormatTimerStartTime(t *testing.T) {
	now := time.Date(2024, 1, 17, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startedAt time.Time
		want      string
	}{
		{"today", time.Date(2024, 1, 17, 9, 5, 0, 0, time.UTC), "today at 09:05"},
		{"yesterday", time.Date(2024, 1, 16, 22, 0, 0, 0, time.UTC), "Tue Jan 16 at 22:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatTimerStartTime(tt.startedAt, now)
			if result != tt.want {
				t.Errorf("FormatTimerStartTime() = %q, want %q", result, tt.want)
			}
		})
	}
}

func TestFormatConflicts(t *testing.T) {
	conflicts := []entry.Entry{
		mkEntry(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), "work", "standup"),
		mkEntry(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), time.Date(2024, 1, 15, 10, 15, 0, 0, time.UTC), "home", ""),
	}

	lines := FormatConflicts(conflicts, time.UTC)

	want := []string{
		"  09:30-10:00  standup [@work] (30m)",
		"  10:00-10:15  @home (15m)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
