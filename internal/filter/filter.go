package filter

import (
	"strings"

	"github.com/xolan/logbook/internal/entry"
)

// Filter represents search and filtering criteria for logbook entries.
// All filter fields are optional - empty values match all entries.
type Filter struct {
	Keyword  string // Case-insensitive substring search in descriptions
	Category string // Exact category match (case-insensitive)
}

// NewFilter creates a new Filter with the given criteria.
// Surrounding whitespace is ignored, and a leading @ on the category is dropped
// so that "@work" and "work" select the same entries.
func NewFilter(keyword, category string) *Filter {
	return &Filter{
		Keyword:  strings.TrimSpace(keyword),
		Category: strings.TrimPrefix(strings.TrimSpace(category), "@"),
	}
}

// IsEmpty returns true if all filter fields are empty (matches all entries)
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.Keyword == "" && f.Category == "")
}

// FilterEntries returns a new slice containing only entries that match the filter criteria.
// If the filter is empty, returns all entries.
func FilterEntries(entries []entry.Entry, f *Filter) []entry.Entry {
	if f.IsEmpty() {
		return entries
	}

	filtered := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// MatchesKeyword returns true if the keyword is found in the entry's description (case-insensitive).
// An empty keyword matches all entries.
func (f *Filter) MatchesKeyword(e entry.Entry) bool {
	if f.Keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Keyword))
}

// MatchesCategory returns true if the entry's category equals the filter category (case-insensitive).
// An empty category filter matches all entries.
func (f *Filter) MatchesCategory(e entry.Entry) bool {
	if f.Category == "" {
		return true
	}
	return strings.EqualFold(e.Category, f.Category)
}

// Matches returns true if the entry satisfies every criterion.
func (f *Filter) Matches(e entry.Entry) bool {
	if f.IsEmpty() {
		return true
	}
	return f.MatchesKeyword(e) && f.MatchesCategory(e)
}

// String describes the active criteria, e.g. `@work "standup"`.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return ""
	}
	var parts []string
	if f.Category != "" {
		parts = append(parts, "@"+f.Category)
	}
	if f.Keyword != "" {
		parts = append(parts, `"`+f.Keyword+`"`)
	}
	return strings.Join(parts, " ")
}
