package handlers

import (
	"fmt"
	"strings"

	"github.com/xolan/logbook/internal/cli"
)

// ShowConfig displays the current configuration
func ShowConfig(deps *cli.Deps) {
	svc := deps.ConfigService()
	cfg := svc.Get()

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Config file: %s\n", svc.GetPath())
	if svc.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: File exists")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: Using defaults (no config file)")
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "backend:        %s\n", cfg.Backend)
	_, _ = fmt.Fprintf(deps.Stdout, "week_start_day: %s\n", cfg.WeekStartDay)
	_, _ = fmt.Fprintf(deps.Stdout, "timezone:       %s\n", cfg.Timezone)
	_, _ = fmt.Fprintf(deps.Stdout, "log_level:      %s\n", cfg.LogLevel)
	if cfg.Theme != "" {
		_, _ = fmt.Fprintf(deps.Stdout, "theme:          %s\n", cfg.Theme)
	}
	if cfg.DataDir != "" {
		_, _ = fmt.Fprintf(deps.Stdout, "data_dir:       %s\n", cfg.DataDir)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "server.listen:  %s\n", cfg.Server.Listen)
}

// ShowConfigPath prints the config file location
func ShowConfigPath(deps *cli.Deps) {
	_, _ = fmt.Fprintln(deps.Stdout, deps.ConfigService().GetPath())
}

// InitConfig creates a sample config file
func InitConfig(deps *cli.Deps) {
	svc := deps.ConfigService()
	if err := svc.Init(); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", svc.GetPath())
	_, _ = fmt.Fprintln(deps.Stdout, "Edit this file to customize your settings.")
}
