// Package controller answers interval queries over a backend that only
// offers ordered point lookups, and guards the no-overlap invariant when
// entries are created.
package controller

import (
	"context"
	"time"

	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/logger"
)

// Controller is the read-only query side. It is safe for concurrent use as
// long as the underlying store is.
type Controller struct {
	store  Store
	ranged RangeStore // set when store can answer interval queries itself
	log    logger.Logger
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	log           logger.Logger
	disableRanges bool
}

// WithLogger sets the logger used for debug tracing of scans.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithoutRangeQueries forces the bidirectional scan even when the store
// implements RangeStore.
func WithoutRangeQueries() Option {
	return func(o *options) {
		o.disableRanges = true
	}
}

func buildOptions(opts []Option) options {
	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns a Controller reading from store.
func New(store Store, opts ...Option) *Controller {
	o := buildOptions(opts)
	c := &Controller{
		store: store,
		log:   o.log.With(logger.String("component", "controller")),
	}
	if rs, ok := store.(RangeStore); ok && !o.disableRanges {
		c.ranged = rs
	}
	return c
}

// UsesRangeQueries reports whether interval queries go to the store's
// native range capability.
func (c *Controller) UsesRangeQueries() bool {
	return c.ranged != nil
}

// GetIntersection returns the parts of stored entries that fall inside
// [start, end), clipped to that interval, sorted with entry.Compare and
// free of duplicates. Both bounds must be UTC. An empty or inverted
// interval yields an empty result.
func (c *Controller) GetIntersection(ctx context.Context, start, end time.Time) ([]entry.Entry, error) {
	if err := checkUTC("start_time", start); err != nil {
		return nil, err
	}
	if err := checkUTC("end_time", end); err != nil {
		return nil, err
	}
	// No entry lies outside the storable range, and backends cannot encode
	// instants beyond it.
	if start.Before(entry.MinTime) {
		start = entry.MinTime
	}
	if end.After(entry.MaxTime) {
		end = entry.MaxTime
	}
	if !start.Before(end) {
		return []entry.Entry{}, nil
	}

	var (
		found []entry.Entry
		err   error
	)
	if c.ranged != nil {
		found, err = c.rangeQuery(ctx, start, end)
	} else {
		found, err = c.scan(ctx, start, end)
	}
	if err != nil {
		return nil, err
	}

	entry.Sort(found)
	found = entry.Dedupe(found)
	c.log.Debug("intersection computed",
		logger.Time("start", start),
		logger.Time("end", end),
		logger.Int("entries", len(found)))
	return found, nil
}

func (c *Controller) rangeQuery(ctx context.Context, start, end time.Time) ([]entry.Entry, error) {
	stored, err := c.ranged.Intersecting(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]entry.Entry, 0, len(stored))
	for _, e := range stored {
		clipped, err := e.Intersection(start, end)
		if err != nil {
			return nil, err
		}
		if clipped != nil {
			out = append(out, *clipped)
		}
	}
	return out, nil
}

// scan walks forward from start with FindFirstAfter, then backward with
// FindLastBefore to pick up an entry that begins before start but reaches
// into the interval.
func (c *Controller) scan(ctx context.Context, start, end time.Time) ([]entry.Entry, error) {
	out := []entry.Entry{}

	cursor := start
	steps := 0
	for {
		next, err := c.store.FindFirstAfter(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if next == nil || !next.Start.Before(end) {
			break
		}
		steps++
		clipped, err := next.Intersection(start, end)
		if err != nil {
			return nil, err
		}
		if clipped != nil {
			out = append(out, *clipped)
		}
		if !next.End.After(cursor) {
			// A store violating the ordering contract must not stall the walk.
			break
		}
		cursor = next.End
	}
	c.log.Debug("forward scan finished", logger.Int("steps", steps))

	// The backward walk compares with <= instead of stepping the cursor back
	// by a clock tick. An entry starting exactly at the cursor is already
	// covered, and since entries do not overlap nothing earlier can cross it.
	cursor = start
	steps = 0
	for {
		prev, err := c.store.FindLastBefore(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if prev == nil || !prev.Start.Before(cursor) || !prev.End.After(start) {
			break
		}
		steps++
		clipped, err := prev.Intersection(start, end)
		if err != nil {
			return nil, err
		}
		if clipped != nil {
			out = append(out, *clipped)
		}
		cursor = prev.Start
	}
	c.log.Debug("backward scan finished", logger.Int("steps", steps))

	return out, nil
}

func checkUTC(field string, t time.Time) error {
	if t.Location() != time.UTC {
		return &entry.ValidationError{Field: field, Reason: "timestamp must be in UTC, got " + t.Location().String()}
	}
	return nil
}
