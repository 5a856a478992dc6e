package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/export"
	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/service"
)

// ExportEntries writes the entries of the date range in format to Stdout.
// criteria is recorded in the JSON and YAML metadata.
func ExportEntries(ctx context.Context, deps *cli.Deps, format export.Format, dateRange service.DateRangeSpec, f *filter.Filter, criteria map[string]string) {
	result, err := deps.Services.Entry.List(ctx, dateRange, f)
	if err != nil {
		fail(deps, "read entries", err)
		return
	}

	if criteria == nil {
		criteria = map[string]string{}
	}
	if !f.IsEmpty() {
		if f.Category != "" {
			criteria["category"] = f.Category
		}
		if f.Keyword != "" {
			criteria["keyword"] = f.Keyword
		}
	}

	doc := export.NewDocument(result.Entries, criteria, deps.CurrentTime())
	if err := export.Write(deps.Stdout, format, doc); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to write %s output\n", format)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}
}

// ImportEntries reads a JSON or YAML export from r and stores every entry
// that does not overlap the stored ones. Conflicting entries are reported
// and skipped.
func ImportEntries(ctx context.Context, deps *cli.Deps, format export.Format, r io.Reader) {
	var (
		doc export.Document
		err error
	)
	switch format {
	case export.FormatJSON:
		doc, err = export.ReadJSON(r)
	case export.FormatYAML:
		doc, err = export.ReadYAML(r)
	default:
		err = fmt.Errorf("cannot import %s; use json or yaml", format)
	}
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read import data")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	loc := deps.Location()
	imported, skipped := 0, 0
	for _, e := range doc.Entries {
		_, err := deps.Services.Entry.Create(ctx, e.Start, e.End, e.Category, e.Description)
		if errors.Is(err, controller.ErrConflict) {
			skipped++
			_, _ = fmt.Fprintf(deps.Stderr, "Skipped (overlap): %s\n", cli.FormatEntryLine(e, loc, true))
			continue
		}
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stdout, "Imported %d %s before the failure\n", imported, cli.Pluralize("entry", imported))
			fail(deps, "import entry", err)
			return
		}
		imported++
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Imported %d %s", imported, cli.Pluralize("entry", imported))
	if skipped > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, ", skipped %d overlapping", skipped)
	}
	_, _ = fmt.Fprintln(deps.Stdout)
}
