package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli/handlers"
)

var forceFlag bool

var startCmd = &cobra.Command{
	Use:   "start <description> @<category>",
	Short: "Start a timer for a task",
	Long: `Start a timer for a task. 'logbook stop' logs the elapsed span as an entry.

The description must carry an @category. Timer state persists across
terminal sessions.

Examples:
  logbook start code review @work
  logbook start @reading --force`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handlers.StartTimer(deps, strings.Join(args, " "), forceFlag)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the timer and log the entry",
	Long: `Stop the running timer and store [started, now) as an entry.
If the span overlaps stored entries nothing is stored and the timer keeps
running.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.StopTimer(cmd.Context(), deps)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Discard the running timer",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.CancelTimer(deps)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ShowTimerStatus(deps)
	},
}

func init() {
	startCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "override existing timer if one is already running")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(statusCmd)
}
