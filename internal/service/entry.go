package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/logbook/internal/config"
	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/storage"
	"github.com/xolan/logbook/internal/timeutil"
)

// Common errors for the entry service
var (
	ErrInvalidLastDays = errors.New("invalid number of days")
	ErrNoEntryAt       = errors.New("no entry starts at that time")
)

// EntryService provides operations for managing logbook entries
type EntryService struct {
	ctrl    *controller.MutatingController
	store   controller.Store
	history storage.History
	config  config.Config
	now     func() time.Time
}

// NewEntryService creates a new EntryService. now must return times in the
// display location.
func NewEntryService(ctrl *controller.MutatingController, backend storage.Backend, cfg config.Config, now func() time.Time) *EntryService {
	return &EntryService{
		ctrl:    ctrl,
		store:   backend,
		history: backend,
		config:  cfg,
		now:     now,
	}
}

// Create stores a new entry for [start, end). Both instants are converted
// to UTC first; overlapping an existing entry yields a
// *controller.ConflictError.
func (s *EntryService) Create(ctx context.Context, start, end time.Time, category, description string) (*entry.Entry, error) {
	category = strings.TrimPrefix(strings.TrimSpace(category), "@")
	e, err := entry.New(start.UTC(), end.UTC(), category, strings.TrimSpace(description))
	if err != nil {
		return nil, err
	}
	if err := s.ctrl.CreateEntry(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateFromInput creates an entry from free text such as
// "standup @work from 09:00 to 09:15" or "reading @home from 21:00 for 45m".
// Times are read in the configured timezone. A clock-only end at or before
// the start is taken to be on the following day.
func (s *EntryService) CreateFromInput(ctx context.Context, raw string) (*entry.Entry, error) {
	start, end, in, err := s.ResolveInput(raw)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, start, end, in.Category, in.Description)
}

// ResolveInput parses raw and resolves its times without storing anything.
func (s *EntryService) ResolveInput(raw string) (start, end time.Time, in entry.Input, err error) {
	in, err = entry.ParseInput(raw)
	if err != nil {
		return time.Time{}, time.Time{}, entry.Input{}, err
	}

	now := s.now()
	start, err = timeutil.ParseInstant(in.StartText, now)
	if err != nil {
		return time.Time{}, time.Time{}, entry.Input{}, fmt.Errorf("invalid start: %w", err)
	}

	if in.Duration > 0 {
		return start, start.Add(in.Duration), in, nil
	}

	// The end's reference day is the start's local day, not today.
	end, err = timeutil.ParseInstant(in.EndText, start.In(now.Location()))
	if err != nil {
		return time.Time{}, time.Time{}, entry.Input{}, fmt.Errorf("invalid end: %w", err)
	}
	if !end.After(start) && isClockOnly(in.EndText) {
		end = end.In(now.Location()).AddDate(0, 0, 1).UTC()
	}
	return start, end, in, nil
}

func isClockOnly(text string) bool {
	text = strings.TrimSpace(text)
	return !strings.Contains(text, "-") && !strings.Contains(text, "/") && strings.Contains(text, ":")
}

// List returns the entries intersecting the date range, clipped to it,
// optionally filtered by keyword and category.
func (s *EntryService) List(ctx context.Context, dateRange DateRangeSpec, f *filter.Filter) (*ListResult, error) {
	w, period, err := resolveDateRange(dateRange, s.now(), s.config.WeekStart())
	if err != nil {
		return nil, err
	}

	entries, err := s.Intersect(ctx, w)
	if err != nil {
		return nil, err
	}
	entries = filter.FilterEntries(entries, f)

	var total time.Duration
	for _, e := range entries {
		total += e.Duration()
	}

	return &ListResult{
		Entries: entries,
		Period:  period,
		Window:  w,
		Total:   total,
	}, nil
}

// Intersect returns the entries intersecting w, clipped to it.
func (s *EntryService) Intersect(ctx context.Context, w timeutil.Window) ([]entry.Entry, error) {
	entries, err := s.ctrl.GetIntersection(ctx, w.Start.UTC(), w.End.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}

// FindAt returns the stored (unclipped) entry starting exactly at start.
func (s *EntryService) FindAt(ctx context.Context, start time.Time) (*entry.Entry, error) {
	e, err := s.store.FindFirstAfter(ctx, start.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	if e == nil || !e.Start.Equal(start) {
		return nil, ErrNoEntryAt
	}
	return e, nil
}

// FindContaining returns the stored (unclipped) entry covering t, so that
// an entry seen clipped in a list can be traced back to what is stored.
func (s *EntryService) FindContaining(ctx context.Context, t time.Time) (*entry.Entry, error) {
	e, err := s.store.FindLastBefore(ctx, t.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	if e == nil || !t.Before(e.End) {
		return nil, ErrNoEntryAt
	}
	return e, nil
}

// Delete removes the stored entry equal to e.
func (s *EntryService) Delete(ctx context.Context, e entry.Entry) error {
	return s.ctrl.DestroyEntry(ctx, e)
}

// CanDelete reports whether the backend supports Delete.
func (s *EntryService) CanDelete() bool {
	return s.ctrl.CanDestroy()
}

// History returns the mutation log, oldest first.
func (s *EntryService) History(ctx context.Context) ([]storage.MutationRecord, error) {
	records, err := s.history.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return records, nil
}

// Now returns the current time in the display location.
func (s *EntryService) Now() time.Time {
	return s.now()
}

// Location returns the display location.
func (s *EntryService) Location() *time.Location {
	return s.now().Location()
}
