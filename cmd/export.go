package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/logbook/internal/cli/handlers"
	"github.com/xolan/logbook/internal/export"
	"github.com/xolan/logbook/internal/service"
)

var exportFlags rangeFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries as JSON, YAML or CSV",
	Long: `Export entries to stdout. Without date flags every entry is exported;
with them entries are clipped to the range.

Examples:
  logbook export json > backup.json
  logbook export yaml --last 7
  logbook export csv --from 2024-01-01 --to 2024-01-31 --category work`,
}

func newExportCmd(format export.Format) *cobra.Command {
	return &cobra.Command{
		Use:   string(format),
		Short: fmt.Sprintf("Export entries as %s", strings.ToUpper(string(format))),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			dr := service.DateRangeSpec{Type: service.DateRangeAll}
			if exportFlags.set() {
				var ok bool
				if dr, ok = exportFlags.dateRange(); !ok {
					return
				}
			}
			handlers.ExportEntries(cmd.Context(), deps, format, dr, exportFlags.filter(), exportFlags.criteria())
		},
	}
}

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import entries from a JSON or YAML export",
	Long: `Import the entries of a JSON or YAML export. Entries overlapping stored
ones are reported and skipped. The format follows the file extension unless
--format is given; standard input ("-") defaults to JSON.

Examples:
  logbook import backup.json
  cat week.yaml | logbook import - --format yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, err := importFormatFor(args[0], importFormat)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
			deps.Exit(1)
			return
		}

		var r io.Reader = deps.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to open %s\n", args[0])
				_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
				deps.Exit(1)
				return
			}
			defer func() { _ = f.Close() }()
			r = f
		}
		handlers.ImportEntries(cmd.Context(), deps, format, r)
	},
}

func importFormatFor(path, flag string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if path == "-" {
		return export.FormatJSON, nil
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return export.FormatJSON, nil
	}
	return export.ParseFormat(ext)
}

func init() {
	exportFlags.register(exportCmd)
	for _, f := range export.Formats {
		exportCmd.AddCommand(newExportCmd(f))
	}
	rootCmd.AddCommand(exportCmd)

	importCmd.Flags().StringVar(&importFormat, "format", "", "json or yaml (default: from the file extension)")
	rootCmd.AddCommand(importCmd)
}
