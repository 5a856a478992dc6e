package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/service"
)

// StartTimer starts a new timer
func StartTimer(deps *cli.Deps, description string, force bool) {
	state, existingTimer, err := deps.Services.Timer.Start(description, force)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTimerAlreadyRunning) && existingTimer != nil:
			_, _ = fmt.Fprintln(deps.Stderr, "Warning: A timer is already running")
			_, _ = fmt.Fprintf(deps.Stderr, "Current timer: %s\n",
				cli.FormatEntryForLog(existingTimer.Description, existingTimer.Category))
			_, _ = fmt.Fprintf(deps.Stderr, "Started: %s\n", cli.FormatTimerStartTime(existingTimer.StartedAt, deps.CurrentTime()))
			_, _ = fmt.Fprintln(deps.Stderr)
			_, _ = fmt.Fprintln(deps.Stderr, "Options:")
			_, _ = fmt.Fprintln(deps.Stderr, "  - Stop the current timer with 'logbook stop'")
			_, _ = fmt.Fprintln(deps.Stderr, "  - Override with 'logbook start <description> @<category> --force'")
		case errors.Is(err, entry.ErrMissingCategory):
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Missing @category")
			_, _ = fmt.Fprintln(deps.Stderr, "Usage: logbook start <description> @<category>")
			_, _ = fmt.Fprintln(deps.Stderr, "Example: logbook start code review @work")
		default:
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	// Display success message
	_, _ = fmt.Fprintf(deps.Stdout, "Timer started: %s\n", cli.FormatEntryForLog(state.Description, state.Category))
	if force && existingTimer != nil {
		_, _ = fmt.Fprintln(deps.Stdout, "(Previous timer was overwritten)")
	}
}

// StopTimer stops the current timer and creates an entry
func StopTimer(ctx context.Context, deps *cli.Deps) {
	e, _, err := deps.Services.Timer.Stop(ctx)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoTimerRunning):
			_, _ = fmt.Fprintln(deps.Stderr, "Error: No timer is running")
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Start a timer with 'logbook start <description> @<category>'")
			deps.Exit(1)
		case errors.Is(err, service.ErrTimerTooShort):
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Timer has been running for less than a second")
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Discard it with 'logbook cancel'")
			deps.Exit(1)
		case errors.Is(err, controller.ErrConflict):
			fail(deps, "save entry", err, "The timer is still running; stop it again once the overlap is resolved.")
		default:
			fail(deps, "stop timer", err)
		}
		return
	}

	// Display success message
	_, _ = fmt.Fprintf(deps.Stdout, "Stopped: %s (%s)\n", cli.FormatEntry(*e), cli.FormatDuration(e.Duration()))
}

// CancelTimer discards the running timer
func CancelTimer(deps *cli.Deps) {
	state, err := deps.Services.Timer.Cancel()
	if err != nil {
		if errors.Is(err, service.ErrNoTimerRunning) {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: No timer is running")
		} else {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Timer cancelled: %s (%s discarded)\n",
		cli.FormatEntryForLog(state.Description, state.Category),
		cli.FormatDuration(state.Elapsed(deps.CurrentTime())))
}

// ShowTimerStatus shows the current timer status
func ShowTimerStatus(deps *cli.Deps) {
	status, err := deps.Services.Timer.Status()
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	if !status.Running || status.State == nil {
		_, _ = fmt.Fprintln(deps.Stdout, "No timer running")
		_, _ = fmt.Fprintln(deps.Stdout, "Start a timer with: logbook start <description> @<category>")
		return
	}

	state := status.State
	_, _ = fmt.Fprintln(deps.Stdout, "Timer running:")
	_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", cli.FormatEntryForLog(state.Description, state.Category))
	_, _ = fmt.Fprintf(deps.Stdout, "  Started: %s\n", cli.FormatTimerStartTime(state.StartedAt, deps.CurrentTime()))
	_, _ = fmt.Fprintf(deps.Stdout, "  Elapsed: %s\n", cli.FormatDuration(status.ElapsedTime))
}
