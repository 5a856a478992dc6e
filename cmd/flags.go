package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/timeutil"
)

// rangeFlags are the date range and filter flags shared by query, report
// and export.
type rangeFlags struct {
	from     string
	to       string
	last     int
	category string
	keyword  string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first day (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, included (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().IntVar(&f.last, "last", 0, "the last N days, today included")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "only entries of this category")
	cmd.Flags().StringVarP(&f.keyword, "keyword", "k", "", "only entries whose description contains this text")
}

func (f *rangeFlags) set() bool {
	return f.from != "" || f.to != "" || f.last != 0
}

// dateRange resolves the flags to a range. ok is false when the flags were
// invalid and the error was reported.
func (f *rangeFlags) dateRange() (service.DateRangeSpec, bool) {
	w, err := timeutil.ParseDateRangeFlags(f.from, f.to, f.last, deps.CurrentTime())
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use --from/--to with YYYY-MM-DD or --last N, not both")
		deps.Exit(1)
		return service.DateRangeSpec{}, false
	}
	if f.last > 0 {
		return service.DateRangeSpec{Type: service.DateRangeLast, LastDays: f.last}, true
	}
	return service.CustomRange(w), true
}

func (f *rangeFlags) filter() *filter.Filter {
	return filter.NewFilter(f.keyword, f.category)
}

// criteria records the flags for export metadata.
func (f *rangeFlags) criteria() map[string]string {
	c := map[string]string{}
	if f.from != "" {
		c["from"] = f.from
	}
	if f.to != "" {
		c["to"] = f.to
	}
	if f.last > 0 {
		c["last"] = fmt.Sprintf("%d days", f.last)
	}
	return c
}
