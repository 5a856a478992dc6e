package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli"
)

// What a command needs loaded before it runs, set in its annotations.
const (
	needsAnnotation = "logbook.needs"
	needsNothing    = "nothing"
	needsConfig     = "config"
)

// deps is the dependencies instance used by commands. The root command
// loads it before each run unless a test installed one with SetDeps.
var (
	deps      *cli.Deps
	ownedDeps bool
)

// SetDeps installs d for the following commands (for testing).
func SetDeps(d *cli.Deps) {
	deps = d
	ownedDeps = false
}

// ResetDeps drops installed dependencies (for testing cleanup).
func ResetDeps() {
	releaseDeps()
	deps = nil
}

func loadDeps(cmd *cobra.Command, _ []string) error {
	if deps != nil {
		return nil
	}
	if cmd.Name() == cobra.ShellCompRequestCmd || cmd.Name() == cobra.ShellCompNoDescRequestCmd {
		return nil
	}

	var (
		d   *cli.Deps
		err error
	)
	switch cmd.Annotations[needsAnnotation] {
	case needsNothing:
		return nil
	case needsConfig:
		d, err = cli.LoadConfig()
	default:
		d, err = cli.Load(cmd.Context())
	}
	if err != nil {
		return err
	}

	// Handlers exit directly on failure; release the backend first.
	d.Exit = func(code int) {
		_ = d.Close()
		os.Exit(code)
	}
	deps = d
	ownedDeps = true
	return nil
}

func releaseDeps() {
	if ownedDeps {
		_ = deps.Close()
		deps = nil
		ownedDeps = false
	}
}
