package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/service"
)

func TestShowReport(t *testing.T) {
	env := setupTestDeps(t, nil)
	env.seed(t,
		mustEntry(t, at(16, 9, 0), at(16, 10, 0), "work", "planning"),
		mustEntry(t, at(17, 9, 0), at(17, 10, 0), "work", "standup"),
		mustEntry(t, at(17, 10, 0), at(17, 11, 30), "work", "review"),
		mustEntry(t, at(17, 12, 0), at(17, 13, 0), "home", "lunch"),
	)

	ShowReport(context.Background(), env.deps, service.DateRangeSpec{Type: service.DateRangeToday}, nil)

	if *env.exit != 0 {
		t.Fatalf("expected exit 0, got %d; stderr: %s", *env.exit, env.stderr.String())
	}
	out := env.stdout.String()
	assertContains(t, out, "Time by category (today):")
	assertContains(t, out, fmt.Sprintf("  %-28s  %10s  (2 entries)", "@work", "2h 30m"))
	assertContains(t, out, fmt.Sprintf("  %-28s  %10s  (1 entry)", "@home", "1h"))
	assertContains(t, out, fmt.Sprintf("  %-28s  %10s  (3 entries)", "Total", "3h 30m"))
	assertContains(t, out, "Average per day:   3h 30m")
	assertContains(t, out, "Days with entries: 1")
	assertContains(t, out, "Coverage:          14.6%")
	assertContains(t, out, "Previous period:   1h (+2h 30m)")
}

func TestShowReport_Filtered(t *testing.T) {
	env := setupTestDeps(t, nil)
	env.seed(t,
		mustEntry(t, at(17, 9, 0), at(17, 10, 0), "work", "standup"),
		mustEntry(t, at(17, 12, 0), at(17, 13, 0), "home", "lunch"),
	)

	ShowReport(context.Background(), env.deps, service.DateRangeSpec{Type: service.DateRangeToday}, filter.NewFilter("", "home"))

	out := env.stdout.String()
	assertContains(t, out, "Time by category (today (@home)):")
	assertContains(t, out, "@home")
	if containsLine(out, "  @work") {
		t.Errorf("filtered report should not list @work:\n%s", out)
	}
}

func TestShowReport_Empty(t *testing.T) {
	env := setupTestDeps(t, nil)

	ShowReport(context.Background(), env.deps, service.DateRangeSpec{Type: service.DateRangeYesterday}, nil)

	if env.stdout.String() != "No entries found for yesterday\n" {
		t.Errorf("unexpected output: %q", env.stdout.String())
	}
}

func TestShowReport_InvalidLastDays(t *testing.T) {
	env := setupTestDeps(t, nil)

	ShowReport(context.Background(), env.deps, service.DateRangeSpec{Type: service.DateRangeLast, LastDays: -2}, nil)

	if *env.exit != 1 {
		t.Errorf("expected exit 1, got %d", *env.exit)
	}
	assertContains(t, env.stderr.String(), "Error:")
}

func TestFormatChange(t *testing.T) {
	tests := []struct {
		cur, prev string
		expected  string
	}{
		{"3h", "1h", "+2h"},
		{"1h", "3h30m", "-2h 30m"},
		{"45m", "45m", "no change"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := formatChange(mustDuration(t, tt.cur), mustDuration(t, tt.prev)); got != tt.expected {
				t.Errorf("formatChange(%s, %s) = %q, expected %q", tt.cur, tt.prev, got, tt.expected)
			}
		})
	}
}
