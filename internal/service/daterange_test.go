package service

import (
	"testing"
	"time"

	"github.com/xolan/logbook/internal/timeutil"
)

func TestResolveDateRange(t *testing.T) {
	tests := []struct {
		name       string
		spec       DateRangeSpec
		wantStart  time.Time
		wantEnd    time.Time
		wantPeriod string
	}{
		{"today", DateRangeSpec{Type: DateRangeToday}, at(17, 0, 0), at(18, 0, 0), "today"},
		{"yesterday", DateRangeSpec{Type: DateRangeYesterday}, at(16, 0, 0), at(17, 0, 0), "yesterday"},
		{"this week", DateRangeSpec{Type: DateRangeThisWeek}, at(15, 0, 0), at(22, 0, 0), "this week"},
		{"last week", DateRangeSpec{Type: DateRangePrevWeek}, at(8, 0, 0), at(15, 0, 0), "last week"},
		{"this month", DateRangeSpec{Type: DateRangeThisMonth}, at(1, 0, 0), time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), "this month"},
		{"last month", DateRangeSpec{Type: DateRangePrevMonth}, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), at(1, 0, 0), "last month"},
		{"last 3 days", DateRangeSpec{Type: DateRangeLast, LastDays: 3}, at(15, 0, 0), at(18, 0, 0), "last 3 days"},
		{"custom single day", CustomRange(timeutil.NewWindow(at(10, 0, 0), at(11, 0, 0))), at(10, 0, 0), at(11, 0, 0), "Wed, Jan 10, 2024"},
		{"custom span", CustomRange(timeutil.NewWindow(at(10, 0, 0), at(13, 0, 0))), at(10, 0, 0), at(13, 0, 0), "Jan 10 - Jan 12, 2024"},
		{"all", DateRangeSpec{Type: DateRangeAll}, timeutil.Earliest, timeutil.Latest, "all time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, period, err := resolveDateRange(tt.spec, testNow, time.Monday)
			if err != nil {
				t.Fatalf("resolveDateRange() returned error: %v", err)
			}
			if !w.Start.Equal(tt.wantStart) || !w.End.Equal(tt.wantEnd) {
				t.Errorf("window = [%v, %v), expected [%v, %v)", w.Start, w.End, tt.wantStart, tt.wantEnd)
			}
			if period != tt.wantPeriod {
				t.Errorf("period = %q, expected %q", period, tt.wantPeriod)
			}
		})
	}
}

func TestFormatDateRangeForDisplay(t *testing.T) {
	tests := []struct {
		name     string
		w        timeutil.Window
		expected string
	}{
		{"empty", timeutil.Window{}, "empty range"},
		{"across years", timeutil.NewWindow(time.Date(2023, time.December, 30, 0, 0, 0, 0, time.UTC), at(2, 0, 0)), "Dec 30, 2023 - Jan 1, 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDateRangeForDisplay(tt.w, time.UTC); got != tt.expected {
				t.Errorf("formatDateRangeForDisplay() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
