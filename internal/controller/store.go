package controller

import (
	"context"
	"time"

	"github.com/xolan/logbook/internal/entry"
)

// Store is the minimal capability a backend must provide. Both lookups must
// answer from one start-ordered collection of non-overlapping entries.
// A nil entry with a nil error means no entry qualifies.
type Store interface {
	// FindFirstAfter returns the entry with the smallest Start >= t.
	FindFirstAfter(ctx context.Context, t time.Time) (*entry.Entry, error)
	// FindLastBefore returns the entry with the largest Start <= t.
	FindLastBefore(ctx context.Context, t time.Time) (*entry.Entry, error)
}

// RangeStore is implemented by backends that can answer an interval query
// natively. Intersecting returns the stored, unclipped entries whose span
// overlaps [start, end), in any order.
type RangeStore interface {
	Store
	Intersecting(ctx context.Context, start, end time.Time) ([]entry.Entry, error)
}

// Publisher adds an entry to the backend so that later lookups see it.
type Publisher interface {
	PublishEntry(ctx context.Context, e entry.Entry) error
}

// MutationLog is the append-only audit sequence kept by the backend.
type MutationLog interface {
	AppendMutation(ctx context.Context, m entry.Mutation) error
}

// Retractor removes a stored entry. It is optional; backends without it
// cannot serve DestroyEntry.
type Retractor interface {
	RetractEntry(ctx context.Context, e entry.Entry) error
}

// AtomicPublisher is implemented by backends that can store an entry and
// its create mutation in one transaction: either both become visible or
// neither does. The mutating controller prefers it over PublishEntry
// followed by AppendMutation.
type AtomicPublisher interface {
	PublishAndLog(ctx context.Context, e entry.Entry, m entry.Mutation) error
}

// Backend is everything the mutating controller needs from storage.
type Backend interface {
	Store
	Publisher
	MutationLog
}
