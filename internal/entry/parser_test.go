package entry

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"1 hour", "1h", 60},
		{"24 hours (max)", "24h", 1440},
		{"30 minutes", "30m", 30},
		{"90 minutes", "90m", 90},
		{"combined", "1h30m", 90},
		{"combined max", "23h60m", 1440},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDuration(tt.input)
			if err != nil {
				t.Errorf("ParseDuration(%q) returned unexpected error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseDuration(%q) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		errContains string
	}{
		{"empty", "", "invalid time format"},
		{"no unit", "30", "invalid time format"},
		{"seconds", "30s", "invalid time format"},
		{"zero hours", "0h", "cannot be zero"},
		{"zero combined", "0h0m", "cannot be zero"},
		{"over max", "25h", "exceeds maximum"},
		{"reversed", "30m1h", "invalid time format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDuration(tt.input)
			if err == nil {
				t.Fatalf("ParseDuration(%q) expected error, got nil", tt.input)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("ParseDuration(%q) error = %q, expected to contain %q", tt.input, err, tt.errContains)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input        string
		wantDesc     string
		wantCategory string
	}{
		{"fix login bug @work", "fix login bug", "work"},
		{"@home  laundry", "laundry", "home"},
		{"@a middle @b", "middle", "b"},
		{"no category", "no category", ""},
		{"@side-project_2", "", "side-project_2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			desc, category := ParseCategory(tt.input)
			if desc != tt.wantDesc || category != tt.wantCategory {
				t.Errorf("ParseCategory(%q) = (%q, %q), expected (%q, %q)",
					tt.input, desc, category, tt.wantDesc, tt.wantCategory)
			}
		})
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Input
		wantErr error
	}{
		{
			name:  "to form",
			input: "standup @work from 09:00 to 09:15",
			want:  Input{Description: "standup", Category: "work", StartText: "09:00", EndText: "09:15"},
		},
		{
			name:  "for form",
			input: "reading @home from 21:00 for 45m",
			want:  Input{Description: "reading", Category: "home", StartText: "21:00", Duration: 45 * time.Minute},
		},
		{
			name:  "full dates",
			input: "@travel from 2024-01-15 08:00 to 2024-01-15 12:30",
			want:  Input{Description: "", Category: "travel", StartText: "2024-01-15 08:00", EndText: "2024-01-15 12:30"},
		},
		{
			name:  "description containing from",
			input: "notes from meeting @work from 10:00 to 11:00",
			want:  Input{Description: "notes from meeting", Category: "work", StartText: "10:00", EndText: "11:00"},
		},
		{name: "missing from", input: "standup @work 09:00 to 09:15", wantErr: ErrMissingFrom},
		{name: "missing category", input: "standup from 09:00 to 09:15", wantErr: ErrMissingCategory},
		{name: "missing end", input: "standup @work from 09:00", wantErr: ErrMissingEnd},
		{name: "empty start", input: "standup @work from  to 10:00", wantErr: ErrMissingEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInput(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseInput(%q) error = %v, expected %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInput(%q) returned unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseInput(%q) = %+v, expected %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInput_InvalidDuration(t *testing.T) {
	if _, err := ParseInput("standup @work from 09:00 for 0m"); err == nil {
		t.Error("expected error for zero duration")
	}
}
