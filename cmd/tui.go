package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal UI",
	Long: `Browse and add entries, run the timer and view reports in a full screen
terminal UI. Press ? inside for key bindings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), deps.Services)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
