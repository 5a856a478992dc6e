// Package stats aggregates entries that were already clipped to a query
// window, so every duration counts only the part inside the window.
package stats

import (
	"sort"
	"time"

	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/timeutil"
)

// Statistics contains aggregated statistics for a set of entries
type Statistics struct {
	Total           time.Duration
	AveragePerDay   time.Duration
	EntryCount      int
	DaysWithEntries int
	// Coverage is Total as a fraction of the window length.
	Coverage float64
}

// CategoryBreakdown contains statistics for a single category
type CategoryBreakdown struct {
	Category   string
	Total      time.Duration
	EntryCount int
}

// CalculateStatistics computes statistics for entries within w. Entries
// are clipped to w first; days are counted in loc.
func CalculateStatistics(entries []entry.Entry, w timeutil.Window, loc *time.Location) Statistics {
	stats := Statistics{}
	if w.Empty() {
		return stats
	}
	if loc == nil {
		loc = time.UTC
	}

	daysWithEntries := make(map[string]bool)
	for _, e := range clip(entries, w) {
		stats.Total += e.Duration()
		stats.EntryCount++
		daysWithEntries[e.Start.In(loc).Format("2006-01-02")] = true
	}
	stats.DaysWithEntries = len(daysWithEntries)

	days := countDays(w, loc)
	if days > 0 {
		stats.AveragePerDay = stats.Total / time.Duration(days)
	}
	stats.Coverage = float64(stats.Total) / float64(w.Duration())

	return stats
}

// CalculateCategoryBreakdown groups entries by category and returns the
// groups sorted by total duration, largest first. Ties sort by name.
func CalculateCategoryBreakdown(entries []entry.Entry, w timeutil.Window) []CategoryBreakdown {
	if w.Empty() {
		return []CategoryBreakdown{}
	}

	categoryMap := make(map[string]*CategoryBreakdown)
	for _, e := range clip(entries, w) {
		b, ok := categoryMap[e.Category]
		if !ok {
			b = &CategoryBreakdown{Category: e.Category}
			categoryMap[e.Category] = b
		}
		b.Total += e.Duration()
		b.EntryCount++
	}

	breakdowns := make([]CategoryBreakdown, 0, len(categoryMap))
	for _, b := range categoryMap {
		breakdowns = append(breakdowns, *b)
	}
	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].Total != breakdowns[j].Total {
			return breakdowns[i].Total > breakdowns[j].Total
		}
		return breakdowns[i].Category < breakdowns[j].Category
	})

	return breakdowns
}

// clip drops entries outside w and trims the rest to it.
func clip(entries []entry.Entry, w timeutil.Window) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		c, err := e.Intersection(w.Start, w.End)
		if err != nil || c == nil {
			continue
		}
		out = append(out, *c)
	}
	return out
}

// countDays returns the number of calendar days in loc that w touches.
func countDays(w timeutil.Window, loc *time.Location) int {
	first := timeutil.StartOfDay(w.Start.In(loc))
	last := timeutil.StartOfDay(w.End.Add(-time.Nanosecond).In(loc))
	days := 1
	for d := first; d.Before(last); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}
