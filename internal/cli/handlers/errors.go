package handlers

import (
	"errors"
	"fmt"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/logger"
)

// fail prints err in the Error/Details/Hint layout and exits with status 1.
// action completes "Error: Failed to ..."; notes are printed last.
func fail(deps *cli.Deps, action string, err error, notes ...string) {
	var conflict *controller.ConflictError
	var validation *entry.ValidationError
	var storageErr *controller.StorageError

	switch {
	case errors.As(err, &conflict):
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Entry overlaps %d stored %s:\n",
			len(conflict.Conflicts), cli.Pluralize("entry", len(conflict.Conflicts)))
		for _, line := range cli.FormatConflicts(conflict.Conflicts, deps.Location()) {
			_, _ = fmt.Fprintln(deps.Stderr, line)
		}
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Entries may touch but not overlap; adjust the start or end time")
	case errors.As(err, &validation):
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid %s: %s\n", validation.Field, validation.Reason)
	case errors.As(err, &storageErr):
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to %s\n", action)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the %s backend is reachable and writable\n", storageErr.Backend)
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to %s\n", action)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
	for _, note := range notes {
		_, _ = fmt.Fprintln(deps.Stderr, note)
	}
	deps.Logger().Debug("command failed", logger.String("action", action), logger.Error(err))
	deps.Exit(1)
}
