package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/timeutil"
)

// CreateEntry creates a new entry from raw input such as
// "standup @work from 09:00 to 09:15"
func CreateEntry(ctx context.Context, deps *cli.Deps, rawInput string) {
	e, err := deps.Services.Entry.CreateFromInput(ctx, rawInput)
	if err != nil {
		switch {
		case errors.Is(err, entry.ErrMissingFrom), errors.Is(err, entry.ErrMissingEnd):
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid format: %v\n", err)
			printCreateUsage(deps.Stderr)
		case errors.Is(err, entry.ErrMissingCategory):
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Missing @category")
			printCreateUsage(deps.Stderr)
		case errors.Is(err, controller.ErrConflict), errors.Is(err, entry.ErrValidation):
			fail(deps, "save entry", err)
			return
		default:
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	// Display success message
	_, _ = fmt.Fprintf(deps.Stdout, "Logged: %s\n", cli.FormatEntryLine(*e, deps.Location(), !isToday(deps, *e)))
}

func printCreateUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage: logbook <description> @<category> from <start> to <end>")
	_, _ = fmt.Fprintln(w, "       logbook <description> @<category> from <start> for <duration>")
	_, _ = fmt.Fprintln(w, "Example: logbook standup @work from 09:00 to 09:15")
}

// isToday reports whether e starts on the current day.
func isToday(deps *cli.Deps, e entry.Entry) bool {
	return timeutil.Today(deps.CurrentTime()).Contains(e.Start)
}

// ListEntries lists entries for the given date range and filter. Entries
// reaching across the range boundary are shown clipped.
func ListEntries(ctx context.Context, deps *cli.Deps, dateRange service.DateRangeSpec, f *filter.Filter) {
	result, err := deps.Services.Entry.List(ctx, dateRange, f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLastDays) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
			deps.Exit(1)
			return
		}
		fail(deps, "read entries", err)
		return
	}

	period := cli.BuildPeriodWithFilters(result.Period, f)

	if len(result.Entries) == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No entries found for %s\n", period)
		return
	}

	// Display entries
	_, _ = fmt.Fprintf(deps.Stdout, "Entries for %s:\n", period)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))

	loc := deps.Location()
	maxIndexWidth := len(fmt.Sprintf("%d", len(result.Entries)))
	showDate := cli.SpansMultipleDays(result.Entries, loc)

	for i, e := range result.Entries {
		_, _ = fmt.Fprintf(deps.Stdout, "[%*d] %s\n", maxIndexWidth, i+1, cli.FormatEntryLine(e, loc, showDate))
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Total: %s\n", cli.FormatDuration(result.Total))
}

// DeleteEntry deletes the entry starting at startText with optional
// confirmation. startText is read like an entry start time.
func DeleteEntry(ctx context.Context, deps *cli.Deps, startText string, skipConfirm bool) {
	if !deps.Services.Entry.CanDelete() {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: The %s backend cannot remove entries\n", deps.Config.Backend)
		deps.Exit(1)
		return
	}

	start, err := timeutil.ParseInstant(startText, deps.CurrentTime())
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid start time '%s'\n", startText)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	e, err := deps.Services.Entry.FindAt(ctx, start)
	if err != nil {
		if errors.Is(err, service.ErrNoEntryAt) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: No entry starts at %s\n",
				start.In(deps.Location()).Format("2006-01-02 15:04:05"))
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: List entries with 'logbook' to see their start times")
			deps.Exit(1)
			return
		}
		fail(deps, "read entries", err)
		return
	}

	// Show the entry being deleted
	_, _ = fmt.Fprintln(deps.Stdout, "Entry to delete:")
	_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", cli.FormatEntryLine(*e, deps.Location(), true))

	// Prompt for confirmation unless --yes flag is set
	if !skipConfirm {
		if !promptConfirmation(deps.Stdout, deps.Stdin) {
			_, _ = fmt.Fprintln(deps.Stdout, "Deletion cancelled")
			return
		}
	}

	if err := deps.Services.Entry.Delete(ctx, *e); err != nil {
		fail(deps, "delete entry", err)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Deleted: %s (%s)\n", cli.FormatEntry(*e), cli.FormatDuration(e.Duration()))
}

// ShowHistory prints the mutation log, oldest first. limit > 0 keeps only
// the most recent records.
func ShowHistory(ctx context.Context, deps *cli.Deps, limit int) {
	records, err := deps.Services.Entry.History(ctx)
	if err != nil {
		fail(deps, "read history", err)
		return
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No changes recorded")
		return
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	loc := deps.Location()
	for _, r := range records {
		_, _ = fmt.Fprintf(deps.Stdout, "%s  %-7s  %s\n",
			r.RecordedAt.In(loc).Format("2006-01-02 15:04:05"),
			r.Kind,
			cli.FormatEntryLine(r.Entry, loc, true))
	}
}

// promptConfirmation asks the user to confirm deletion
func promptConfirmation(stdout io.Writer, stdin io.Reader) bool {
	_, _ = fmt.Fprint(stdout, "Delete this entry? [y/N]: ")

	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(scanner.Text())
	return response == "y" || response == "Y"
}
