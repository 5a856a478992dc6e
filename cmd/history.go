package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli/handlers"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the log of entry additions and removals",
	Long: `Show the mutation log: every entry added or removed, oldest first.
With --limit only the most recent mutations are shown.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ShowHistory(cmd.Context(), deps, historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show only the last N mutations")
	rootCmd.AddCommand(historyCmd)
}
