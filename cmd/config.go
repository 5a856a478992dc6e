package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli/handlers"
)

var (
	configInit bool
	configPath bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration",
	Long: `Show the effective configuration, after environment overrides.

--path prints the config file location and --init writes a commented
sample config there if none exists.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{needsAnnotation: needsConfig},
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case configInit:
			handlers.InitConfig(deps)
		case configPath:
			handlers.ShowConfigPath(deps)
		default:
			handlers.ShowConfig(deps)
		}
	},
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "create a sample config file")
	configCmd.Flags().BoolVar(&configPath, "path", false, "print the config file path")
	configCmd.MarkFlagsMutuallyExclusive("init", "path")
	rootCmd.AddCommand(configCmd)
}
