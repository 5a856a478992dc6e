package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
)

// MemoryStore keeps entries in a slice sorted by start time. It is safe for
// concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   []entry.Entry
	mutations []MutationRecord
	now       func() time.Time
}

// NewMemoryStore returns a store seeded with entries. The seed is not
// checked for overlaps.
func NewMemoryStore(entries ...entry.Entry) *MemoryStore {
	s := &MemoryStore{
		entries: append([]entry.Entry(nil), entries...),
		now:     time.Now,
	}
	entry.Sort(s.entries)
	return s
}

// FindFirstAfter returns the entry with the smallest start >= t.
func (s *MemoryStore) FindFirstAfter(ctx context.Context, t time.Time) (*entry.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, controller.WrapStorage("memory", "find_first_after", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := sort.Search(len(s.entries), func(i int) bool {
		return !s.entries[i].Start.Before(t)
	})
	if i == len(s.entries) {
		return nil, nil
	}
	found := s.entries[i]
	return &found, nil
}

// FindLastBefore returns the entry with the largest start <= t.
func (s *MemoryStore) FindLastBefore(ctx context.Context, t time.Time) (*entry.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, controller.WrapStorage("memory", "find_last_before", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Start.After(t)
	})
	if i == 0 {
		return nil, nil
	}
	found := s.entries[i-1]
	return &found, nil
}

// PublishEntry inserts e at its sorted position.
func (s *MemoryStore) PublishEntry(ctx context.Context, e entry.Entry) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage("memory", "publish", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(e)
	return nil
}

// PublishAndLog inserts e and records m under one lock.
func (s *MemoryStore) PublishAndLog(ctx context.Context, e entry.Entry, m entry.Mutation) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage("memory", "publish", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(e)
	s.mutations = append(s.mutations, NewMutationRecord(m, s.now()))
	return nil
}

// insert places e at its sorted position. Callers hold mu.
func (s *MemoryStore) insert(e entry.Entry) {
	i := sort.Search(len(s.entries), func(i int) bool {
		return entry.Compare(s.entries[i], e) > 0
	})
	s.entries = append(s.entries, entry.Entry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e
}

// RetractEntry removes the stored entry equal to e.
func (s *MemoryStore) RetractEntry(ctx context.Context, e entry.Entry) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage("memory", "retract", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, stored := range s.entries {
		if stored.Equal(e) {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return controller.ErrEntryNotFound
}

// AppendMutation records m in the in-memory log.
func (s *MemoryStore) AppendMutation(ctx context.Context, m entry.Mutation) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage("memory", "append_mutation", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mutations = append(s.mutations, NewMutationRecord(m, s.now()))
	return nil
}

// History returns a copy of the mutation log.
func (s *MemoryStore) History(context.Context) ([]MutationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MutationRecord(nil), s.mutations...), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
