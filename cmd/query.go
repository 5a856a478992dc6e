package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli/handlers"
)

var queryFlags rangeFlags

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List entries for a date range",
	Long: `List the entries intersecting a date range, clipped to it.

Without --from the range starts at the earliest entry; without --to it ends
with today.

Examples:
  logbook query --from 2024-01-01 --to 2024-01-31
  logbook query --last 7 --category work
  logbook query --from 2024-01-15 --keyword review`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dr, ok := queryFlags.dateRange()
		if !ok {
			return
		}
		handlers.ListEntries(cmd.Context(), deps, dr, queryFlags.filter())
	},
}

func init() {
	queryFlags.register(queryCmd)
	rootCmd.AddCommand(queryCmd)
}
