package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xolan/logbook/internal/entry"
)

var exportedAt = time.Date(2024, time.January, 20, 12, 0, 0, 0, time.UTC)

func sampleEntries(t *testing.T) []entry.Entry {
	t.Helper()
	day := func(h, m int) time.Time {
		return time.Date(2024, time.January, 17, h, m, 0, 0, time.UTC)
	}
	var entries []entry.Entry
	for _, tc := range []struct {
		start, end time.Time
		cat, desc  string
	}{
		{day(9, 0), day(10, 30), "work", "standup, then review"},
		{day(12, 0), day(12, 45), "home", ""},
	} {
		e, err := entry.New(tc.start, tc.end, tc.cat, tc.desc)
		if err != nil {
			t.Fatalf("entry.New: %v", err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{" csv ", FormatCSV, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(sampleEntries(t), map[string]string{"category": "work"}, exportedAt)
	if doc.Metadata.TotalEntries != 2 {
		t.Errorf("TotalEntries = %d, expected 2", doc.Metadata.TotalEntries)
	}
	if doc.Metadata.TotalSeconds != int64((135 * time.Minute).Seconds()) {
		t.Errorf("TotalSeconds = %d, expected %d", doc.Metadata.TotalSeconds, int64((135 * time.Minute).Seconds()))
	}

	empty := NewDocument(nil, nil, exportedAt)
	if empty.Entries == nil || empty.Metadata.FilterCriteria == nil {
		t.Error("empty document should carry non-nil entries and criteria")
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	entries := sampleEntries(t)
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, NewDocument(entries, nil, exportedAt)); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `"start_time": "2024-01-17T09:00:00Z"`) {
		t.Errorf("unexpected JSON output:\n%s", buf.String())
	}

	doc, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() returned error: %v", err)
	}
	if len(doc.Entries) != len(entries) {
		t.Fatalf("read %d entries, expected %d", len(doc.Entries), len(entries))
	}
	for i := range entries {
		if !doc.Entries[i].Equal(entries[i]) {
			t.Errorf("entry %d = %+v, expected %+v", i, doc.Entries[i], entries[i])
		}
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	entries := sampleEntries(t)
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, NewDocument(entries, map[string]string{"from": "2024-01-17"}, exportedAt)); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"metadata:", "total_entries: 2", "from: \"2024-01-17\"", "category: work"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "description: \"\"") {
		t.Errorf("empty description should be omitted:\n%s", out)
	}

	doc, err := ReadYAML(&buf)
	if err != nil {
		t.Fatalf("ReadYAML() returned error: %v", err)
	}
	if len(doc.Entries) != 2 || !doc.Entries[1].Equal(entries[1]) {
		t.Errorf("unexpected entries: %+v", doc.Entries)
	}
	if doc.Metadata.FilterCriteria["from"] != "2024-01-17" {
		t.Errorf("FilterCriteria = %v", doc.Metadata.FilterCriteria)
	}
}

func TestReadYAML_Invalid(t *testing.T) {
	input := `entries:
  - start_time: 2024-01-17T10:00:00Z
    end_time: 2024-01-17T09:00:00Z
    category: work
`
	if _, err := ReadYAML(strings.NewReader(input)); err == nil {
		t.Error("expected error for an entry ending before it starts")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, NewDocument(sampleEntries(t), nil, exportedAt)); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(CSVHeaders, ",") {
		t.Errorf("headers = %v", records[0])
	}
	expected := []string{"2024-01-17T09:00:00Z", "2024-01-17T10:30:00Z", "work", "standup, then review", "90", "1.50"}
	for i, want := range expected {
		if records[1][i] != want {
			t.Errorf("row 1 column %d = %q, expected %q", i, records[1][i], want)
		}
	}
	if records[2][3] != "" || records[2][5] != "0.75" {
		t.Errorf("row 2 = %v", records[2])
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Format("xml"), Document{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
