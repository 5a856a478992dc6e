package stats

import (
	"testing"
	"time"

	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/timeutil"
)

func at(day, hour, min int) time.Time {
	return time.Date(2024, time.January, day, hour, min, 0, 0, time.UTC)
}

func makeEntry(start, end time.Time, category string) entry.Entry {
	return entry.Entry{Start: start, End: end, Category: category}
}

func TestCalculateStatistics(t *testing.T) {
	entries := []entry.Entry{
		makeEntry(at(15, 9, 0), at(15, 10, 0), "work"),
		makeEntry(at(15, 13, 0), at(15, 13, 30), "home"),
		makeEntry(at(16, 9, 0), at(16, 11, 0), "work"),
	}
	w := timeutil.NewWindow(at(15, 0, 0), at(17, 0, 0))

	stats := CalculateStatistics(entries, w, time.UTC)

	if stats.Total != 3*time.Hour+30*time.Minute {
		t.Errorf("Total = %v, expected 3h30m", stats.Total)
	}
	if stats.EntryCount != 3 {
		t.Errorf("EntryCount = %d, expected 3", stats.EntryCount)
	}
	if stats.DaysWithEntries != 2 {
		t.Errorf("DaysWithEntries = %d, expected 2", stats.DaysWithEntries)
	}
	if stats.AveragePerDay != time.Hour+45*time.Minute {
		t.Errorf("AveragePerDay = %v, expected 1h45m", stats.AveragePerDay)
	}
	expectedCoverage := 3.5 / 48
	if diff := stats.Coverage - expectedCoverage; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Coverage = %v, expected %v", stats.Coverage, expectedCoverage)
	}
}

func TestCalculateStatistics_ClipsToWindow(t *testing.T) {
	// Entry runs 22:00-02:00; only the first two hours fall on the 15th.
	entries := []entry.Entry{
		makeEntry(at(15, 22, 0), at(16, 2, 0), "sleep"),
		makeEntry(at(14, 9, 0), at(14, 10, 0), "outside"),
	}
	w := timeutil.NewWindow(at(15, 0, 0), at(16, 0, 0))

	stats := CalculateStatistics(entries, w, time.UTC)

	if stats.Total != 2*time.Hour {
		t.Errorf("Total = %v, expected 2h", stats.Total)
	}
	if stats.EntryCount != 1 {
		t.Errorf("EntryCount = %d, expected 1", stats.EntryCount)
	}
}

func TestCalculateStatistics_DaysInLocation(t *testing.T) {
	// 23:00 UTC on the 15th is already the 16th at UTC+2.
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	entries := []entry.Entry{
		makeEntry(at(15, 9, 0), at(15, 10, 0), "work"),
		makeEntry(at(15, 23, 0), at(15, 23, 30), "work"),
	}
	w := timeutil.NewWindow(at(14, 22, 0), at(16, 22, 0))

	if got := CalculateStatistics(entries, w, time.UTC).DaysWithEntries; got != 1 {
		t.Errorf("DaysWithEntries in UTC = %d, expected 1", got)
	}
	if got := CalculateStatistics(entries, w, plusTwo).DaysWithEntries; got != 2 {
		t.Errorf("DaysWithEntries in UTC+2 = %d, expected 2", got)
	}
}

func TestCalculateStatistics_Empty(t *testing.T) {
	w := timeutil.NewWindow(at(15, 0, 0), at(16, 0, 0))

	stats := CalculateStatistics(nil, w, nil)
	if stats.Total != 0 || stats.EntryCount != 0 || stats.DaysWithEntries != 0 || stats.Coverage != 0 {
		t.Errorf("expected zero statistics, got %+v", stats)
	}

	stats = CalculateStatistics([]entry.Entry{makeEntry(at(15, 9, 0), at(15, 10, 0), "work")}, timeutil.Window{}, time.UTC)
	if stats.EntryCount != 0 {
		t.Errorf("empty window should yield no entries, got %+v", stats)
	}
}

func TestCountDays(t *testing.T) {
	tests := []struct {
		name     string
		w        timeutil.Window
		expected int
	}{
		{"one day", timeutil.NewWindow(at(15, 0, 0), at(16, 0, 0)), 1},
		{"partial day", timeutil.NewWindow(at(15, 9, 0), at(15, 10, 0)), 1},
		{"week", timeutil.NewWindow(at(15, 0, 0), at(22, 0, 0)), 7},
		{"crosses midnight", timeutil.NewWindow(at(15, 23, 0), at(16, 1, 0)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countDays(tt.w, time.UTC); got != tt.expected {
				t.Errorf("countDays = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestCalculateCategoryBreakdown(t *testing.T) {
	entries := []entry.Entry{
		makeEntry(at(15, 9, 0), at(15, 10, 0), "work"),
		makeEntry(at(15, 10, 0), at(15, 12, 0), "home"),
		makeEntry(at(15, 13, 0), at(15, 14, 30), "work"),
		makeEntry(at(15, 15, 0), at(15, 15, 30), "admin"),
		makeEntry(at(15, 16, 0), at(15, 16, 30), "email"),
	}
	w := timeutil.NewWindow(at(15, 0, 0), at(16, 0, 0))

	got := CalculateCategoryBreakdown(entries, w)

	expected := []CategoryBreakdown{
		{Category: "work", Total: 2*time.Hour + 30*time.Minute, EntryCount: 2},
		{Category: "home", Total: 2 * time.Hour, EntryCount: 1},
		{Category: "admin", Total: 30 * time.Minute, EntryCount: 1},
		{Category: "email", Total: 30 * time.Minute, EntryCount: 1},
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %d groups, got %d: %+v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("group %d = %+v, expected %+v", i, got[i], expected[i])
		}
	}
}

func TestCalculateCategoryBreakdown_Empty(t *testing.T) {
	got := CalculateCategoryBreakdown(nil, timeutil.NewWindow(at(15, 0, 0), at(16, 0, 0)))
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
