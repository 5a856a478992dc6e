// Package entry defines the time interval records kept in a logbook and the
// mutation records that describe changes to the store.
package entry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// MinTime and MaxTime bound the instants an entry may hold. Every instant
// in [MinTime, MaxTime] fits in int64 nanoseconds since the Unix epoch,
// which the storage backends use as their ordering key.
var (
	MinTime = time.Date(1678, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(2262, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Entry is one half-open time interval [Start, End) with a category and an
// optional description. Both instants are in UTC and End is after Start.
//
// Entries are values: every method has a value receiver and derived
// operations return new entries instead of modifying the receiver.
type Entry struct {
	Start       time.Time `json:"start_time" yaml:"start_time"`
	End         time.Time `json:"end_time" yaml:"end_time"`
	Category    string    `json:"category" yaml:"category"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// New builds a validated Entry.
func New(start, end time.Time, category, description string) (Entry, error) {
	e := Entry{
		Start:       start,
		End:         end,
		Category:    category,
		Description: description,
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the invariants New enforces. It is used for entries that
// were built as struct literals or decoded from storage.
func (e Entry) Validate() error {
	if err := checkBounds("start_time", e.Start, "end_time", e.End); err != nil {
		return err
	}
	if err := checkRange("start_time", e.Start); err != nil {
		return err
	}
	if err := checkRange("end_time", e.End); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return &ValidationError{Field: "category", Reason: "category is required"}
	}
	return nil
}

// Duration returns End - Start.
func (e Entry) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Intersection clips the entry to the query interval [start, end).
// It returns nil when the entry lies entirely outside the interval; touching
// endpoints do not count as an intersection. The query bounds must be UTC
// and end must be after start.
func (e Entry) Intersection(start, end time.Time) (*Entry, error) {
	if err := checkBounds("query_start", start, "query_end", end); err != nil {
		return nil, err
	}
	if !start.Before(e.End) || !end.After(e.Start) {
		return nil, nil
	}

	clipped := e
	if start.After(clipped.Start) {
		clipped.Start = start
	}
	if end.Before(clipped.End) {
		clipped.End = end
	}
	return &clipped, nil
}

// Overlaps reports whether the spans of e and other share any instant.
func (e Entry) Overlaps(other Entry) bool {
	return e.Start.Before(other.End) && e.End.After(other.Start)
}

// Contains reports whether t falls inside [Start, End).
func (e Entry) Contains(t time.Time) bool {
	return !t.Before(e.Start) && t.Before(e.End)
}

// Equal reports whether both entries hold the same interval and text.
func (e Entry) Equal(other Entry) bool {
	return Compare(e, other) == 0
}

// Compare orders entries by Start, then End, then Category, then
// Description. It returns -1, 0 or +1.
func Compare(a, b Entry) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	if c := a.End.Compare(b.End); c != 0 {
		return c
	}
	if c := strings.Compare(a.Category, b.Category); c != 0 {
		return c
	}
	return strings.Compare(a.Description, b.Description)
}

// Sort orders entries in place using Compare.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Compare(entries[i], entries[j]) < 0
	})
}

// Dedupe removes adjacent equal entries from a sorted slice and returns the
// shortened slice.
func Dedupe(sorted []Entry) []Entry {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, e := range sorted[1:] {
		if !e.Equal(out[len(out)-1]) {
			out = append(out, e)
		}
	}
	return out
}

// UnmarshalJSON decodes an entry and validates it. Instants written with a
// zero offset are normalised to the UTC location.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	decoded := Entry(p)
	decoded.Start = normalizeUTC(decoded.Start)
	decoded.End = normalizeUTC(decoded.End)
	if err := decoded.Validate(); err != nil {
		return err
	}
	*e = decoded
	return nil
}

// normalizeUTC moves a decoded zero-offset instant ("Z" or "+00:00") into
// time.UTC. Instants carrying any other offset are left alone so that
// validation rejects them.
func normalizeUTC(t time.Time) time.Time {
	if _, offset := t.Zone(); offset == 0 {
		return t.UTC()
	}
	return t
}

func checkBounds(startField string, start time.Time, endField string, end time.Time) error {
	if start.Location() != time.UTC {
		return &ValidationError{Field: startField, Reason: "timestamp must be in UTC, got " + start.Location().String()}
	}
	if end.Location() != time.UTC {
		return &ValidationError{Field: endField, Reason: "timestamp must be in UTC, got " + end.Location().String()}
	}
	if !end.After(start) {
		return &ValidationError{Field: endField, Reason: endField + " must be after " + startField}
	}
	return nil
}

// ClampTime bounds t to [MinTime, MaxTime]. Backends use it before encoding
// a lookup instant as nanoseconds.
func ClampTime(t time.Time) time.Time {
	if t.Before(MinTime) {
		return MinTime
	}
	if t.After(MaxTime) {
		return MaxTime
	}
	return t
}

// checkRange rejects instants outside [MinTime, MaxTime]. An entry may end
// exactly at MaxTime because the end is exclusive.
func checkRange(field string, t time.Time) error {
	if t.Before(MinTime) || t.After(MaxTime) {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("timestamp %s is outside %s to %s", t.Format(time.RFC3339Nano), MinTime.Format(time.RFC3339), MaxTime.Format(time.RFC3339)),
		}
	}
	return nil
}
