package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli/handlers"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [n]",
	Short: "Restore the entry file from a backup",
	Long: `Restore entries.jsonl from one of its rotating backups. Backup 1 is the
most recent and the default. Only the jsonl backend keeps backups.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handlers.RestoreBackup(deps, args)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
