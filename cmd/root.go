package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli/handlers"
	"github.com/xolan/logbook/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "logbook",
	Short: "Log non-overlapping time entries",
	Long: `logbook records half-open time entries [start, end) tagged with a category.
Stored entries never overlap; a new entry that collides with stored ones is
rejected with the conflicting parts listed.

Usage:
  logbook <description> @<category> from <start> to <end>     Log an entry
  logbook <description> @<category> from <start> for <dur>    Log an entry by duration
  logbook                                                      List today's entries
  logbook y | w | lw                                           Yesterday, this week, last week
  logbook query --from 2024-01-01 --to 2024-01-31              Any date range
  logbook delete <start>                                       Delete the entry starting at <start>
  logbook start <description> @<category>                      Start a timer
  logbook stop                                                 Stop it and log the entry
  logbook report [period]                                      Totals per category
  logbook serve                                                HTTP API
  logbook tui                                                  Terminal UI

Times: HH:MM (today), YYYY-MM-DD HH:MM, RFC 3339 or "now".
A clock-only end at or before the start means the next day.
Durations: 2h, 30m, 1h30m

Examples:
  logbook standup @work from 09:00 for 15m
  logbook @sleep from 23:00 to 07:00
  logbook migration @work from 2024-01-15 13:00 to 2024-01-15 17:30`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	PersistentPreRunE: loadDeps,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		releaseDeps()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			handlers.ListEntries(cmd.Context(), deps, service.DateRangeSpec{Type: service.DateRangeToday}, nil)
			return
		}
		handlers.CreateEntry(cmd.Context(), deps, strings.Join(args, " "))
	},
}

var yCmd = &cobra.Command{
	Use:   "y",
	Short: "List yesterday's entries",
	Long:  `List the entries intersecting yesterday, clipped to it.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ListEntries(cmd.Context(), deps, service.DateRangeSpec{Type: service.DateRangeYesterday}, nil)
	},
}

var wCmd = &cobra.Command{
	Use:   "w",
	Short: "List this week's entries",
	Long:  `List the entries intersecting this week (week_start_day in the config), clipped to it.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ListEntries(cmd.Context(), deps, service.DateRangeSpec{Type: service.DateRangeThisWeek}, nil)
	},
}

var lwCmd = &cobra.Command{
	Use:   "lw",
	Short: "List last week's entries",
	Long:  `List the entries intersecting last week, clipped to it.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ListEntries(cmd.Context(), deps, service.DateRangeSpec{Type: service.DateRangePrevWeek}, nil)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check storage file health",
	Long:  `Validate the jsonl entry file and report corrupted lines and overlapping entries.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ValidateStorage(deps)
	},
}

func init() {
	rootCmd.AddCommand(yCmd)
	rootCmd.AddCommand(wCmd)
	rootCmd.AddCommand(lwCmd)
	rootCmd.AddCommand(validateCmd)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"logbook version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// ExecuteContext runs the root command; ctx is cancelled on shutdown signals.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
