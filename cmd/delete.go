package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli/handlers"
)

var yesFlag bool

var deleteCmd = &cobra.Command{
	Use:   "delete <start>",
	Short: "Delete the entry starting at a given time",
	Long: `Delete the stored entry whose start is exactly <start>.
A confirmation prompt is shown unless --yes is given. Backends that cannot
remove entries report an error.

Examples:
  logbook delete 09:00
  logbook delete 2024-01-15 13:00 --yes`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handlers.DeleteEntry(cmd.Context(), deps, strings.Join(args, " "), yesFlag)
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
