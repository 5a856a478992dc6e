// Package export writes entries as JSON, YAML or CSV for programmatic use,
// backup or migration.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xolan/logbook/internal/entry"
)

// Format names an output encoding.
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV}

// ParseFormat resolves a case-insensitive format name; "yml" is accepted
// for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use json, yaml or csv)", s)
	}
}

// Metadata describes an export.
type Metadata struct {
	ExportTimestamp time.Time         `json:"export_timestamp" yaml:"export_timestamp"`
	TotalEntries    int               `json:"total_entries" yaml:"total_entries"`
	TotalSeconds    int64             `json:"total_seconds" yaml:"total_seconds"`
	FilterCriteria  map[string]string `json:"filter_criteria" yaml:"filter_criteria"`
}

// Document is the JSON and YAML export envelope.
type Document struct {
	Metadata Metadata      `json:"metadata" yaml:"metadata"`
	Entries  []entry.Entry `json:"entries" yaml:"entries"`
}

// NewDocument builds the export envelope. criteria may be nil.
func NewDocument(entries []entry.Entry, criteria map[string]string, exportedAt time.Time) Document {
	if entries == nil {
		entries = []entry.Entry{}
	}
	if criteria == nil {
		criteria = map[string]string{}
	}
	var total time.Duration
	for _, e := range entries {
		total += e.Duration()
	}
	return Document{
		Metadata: Metadata{
			ExportTimestamp: exportedAt.UTC(),
			TotalEntries:    len(entries),
			TotalSeconds:    int64(total / time.Second),
			FilterCriteria:  criteria,
		},
		Entries: entries,
	}
}

// CSVHeaders are the column names written by WriteCSV.
var CSVHeaders = []string{"start_time", "end_time", "category", "description", "duration_minutes", "duration_hours"}

// Write encodes doc to w in format.
func Write(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatYAML:
		return WriteYAML(w, doc)
	case FormatCSV:
		return WriteCSV(w, doc.Entries)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// WriteYAML writes doc as a YAML document.
func WriteYAML(w io.Writer, doc Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML output: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML output: %w", err)
	}
	return nil
}

// WriteCSV writes one row per entry after a header row. Instants are
// RFC 3339 in UTC.
func WriteCSV(w io.Writer, entries []entry.Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeaders); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		d := e.Duration()
		row := []string{
			e.Start.UTC().Format(time.RFC3339),
			e.End.UTC().Format(time.RFC3339),
			e.Category,
			e.Description,
			strconv.FormatInt(int64(d/time.Minute), 10),
			strconv.FormatFloat(d.Hours(), 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by WriteJSON. Entries are validated
// on decode.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode JSON export: %w", err)
	}
	return doc, nil
}

// ReadYAML decodes a document written by WriteYAML and validates its
// entries.
func ReadYAML(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode YAML export: %w", err)
	}
	for i := range doc.Entries {
		doc.Entries[i].Start = doc.Entries[i].Start.UTC()
		doc.Entries[i].End = doc.Entries[i].End.UTC()
		if err := doc.Entries[i].Validate(); err != nil {
			return Document{}, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return doc, nil
}
