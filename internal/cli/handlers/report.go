package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/service"
)

// ShowReport shows time per category for the date range, with the totals
// of the period before it for comparison.
func ShowReport(ctx context.Context, deps *cli.Deps, dateRange service.DateRangeSpec, f *filter.Filter) {
	report, err := deps.Services.Report.Report(ctx, dateRange, f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLastDays) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
			deps.Exit(1)
			return
		}
		fail(deps, "build report", err)
		return
	}

	period := cli.BuildPeriodWithFilters(report.Period, f)
	if len(report.Categories) == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No entries found for %s\n", period)
		return
	}

	s := report.Statistics
	_, _ = fmt.Fprintf(deps.Stdout, "Time by category (%s):\n", period)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))

	for _, c := range report.Categories {
		_, _ = fmt.Fprintf(deps.Stdout, "  %-28s  %10s  (%d %s)\n",
			"@"+c.Category,
			cli.FormatDuration(c.Total),
			c.EntryCount,
			cli.Pluralize("entry", c.EntryCount))
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "  %-28s  %10s  (%d %s)\n",
		"Total",
		cli.FormatDuration(s.Total),
		s.EntryCount,
		cli.Pluralize("entry", s.EntryCount))
	_, _ = fmt.Fprintln(deps.Stdout)
	_, _ = fmt.Fprintf(deps.Stdout, "Average per day:   %s\n", cli.FormatDuration(s.AveragePerDay))
	_, _ = fmt.Fprintf(deps.Stdout, "Days with entries: %d\n", s.DaysWithEntries)
	_, _ = fmt.Fprintf(deps.Stdout, "Coverage:          %.1f%%\n", s.Coverage*100)

	if !report.PreviousWindow.Empty() {
		_, _ = fmt.Fprintf(deps.Stdout, "Previous period:   %s (%s)\n",
			cli.FormatDuration(report.Previous.Total),
			formatChange(s.Total, report.Previous.Total))
	}
}

// formatChange describes cur relative to prev, e.g. "+1h 30m" or "no change".
func formatChange(cur, prev time.Duration) string {
	switch diff := cur - prev; {
	case diff > 0:
		return "+" + cli.FormatDuration(diff)
	case diff < 0:
		return "-" + cli.FormatDuration(-diff)
	default:
		return "no change"
	}
}
