package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli/handlers"
	"github.com/xolan/logbook/internal/service"
)

var reportFlags rangeFlags

var reportPeriods = map[string]service.DateRange{
	"today":     service.DateRangeToday,
	"yesterday": service.DateRangeYesterday,
	"week":      service.DateRangeThisWeek,
	"lastweek":  service.DateRangePrevWeek,
	"month":     service.DateRangeThisMonth,
	"lastmonth": service.DateRangePrevMonth,
	"all":       service.DateRangeAll,
}

var reportCmd = &cobra.Command{
	Use:   "report [today|yesterday|week|lastweek|month|lastmonth|all]",
	Short: "Show time per category for a period",
	Long: `Show the time spent per category in a period, counting only the part of
each entry inside the period, and compare the total with the period before.

The period defaults to this week. --from, --to and --last select any other
range and cannot be combined with a period argument.

Examples:
  logbook report
  logbook report lastmonth
  logbook report --last 30 --category work
  logbook report --from 2024-01-01 --to 2024-03-31`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"today", "yesterday", "week", "lastweek", "month", "lastmonth", "all"},
	Run: func(cmd *cobra.Command, args []string) {
		dr, ok := reportRange(args)
		if !ok {
			return
		}
		handlers.ShowReport(cmd.Context(), deps, dr, reportFlags.filter())
	},
}

func init() {
	reportFlags.register(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

func reportRange(args []string) (service.DateRangeSpec, bool) {
	if len(args) == 0 {
		if reportFlags.set() {
			return reportFlags.dateRange()
		}
		return service.DateRangeSpec{Type: service.DateRangeThisWeek}, true
	}

	if reportFlags.set() {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Cannot combine a period with --from, --to or --last")
		deps.Exit(1)
		return service.DateRangeSpec{}, false
	}
	period, ok := reportPeriods[strings.ToLower(args[0])]
	if !ok {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unknown period '%s'\n", args[0])
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use today, yesterday, week, lastweek, month, lastmonth or all")
		deps.Exit(1)
		return service.DateRangeSpec{}, false
	}
	return service.DateRangeSpec{Type: period}, true
}
