// Package storagetest runs the same contract checks against every backend.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/storage"
)

// Factory returns an empty backend. Cleanup is registered on t.
type Factory func(t *testing.T) storage.Backend

// At returns 2024-01-15 hour:min in UTC.
func At(hour, min int) time.Time {
	return time.Date(2024, time.January, 15, hour, min, 0, 0, time.UTC)
}

// Entry builds an entry without validation.
func Entry(start, end time.Time, category string) entry.Entry {
	return entry.Entry{Start: start, End: end, Category: category}
}

// Seed publishes entries directly, bypassing the conflict check.
func Seed(t *testing.T, b storage.Backend, entries ...entry.Entry) {
	t.Helper()
	for _, e := range entries {
		require.NoError(t, b.PublishEntry(context.Background(), e))
	}
}

// Count walks s with FindFirstAfter and returns the number of stored entries.
func Count(t *testing.T, s controller.Store) int {
	t.Helper()
	n := 0
	cursor := entry.MinTime
	for {
		next, err := s.FindFirstAfter(context.Background(), cursor)
		require.NoError(t, err)
		if next == nil {
			return n
		}
		n++
		cursor = next.Start.Add(time.Nanosecond)
	}
}

// Run executes the conformance suite.
func Run(t *testing.T, newBackend Factory) {
	t.Run("EmptyStore", func(t *testing.T) { testEmptyStore(t, newBackend(t)) })
	t.Run("Lookups", func(t *testing.T) { testLookups(t, newBackend(t)) })
	t.Run("PublishOutOfOrder", func(t *testing.T) { testPublishOutOfOrder(t, newBackend(t)) })
	t.Run("Retract", func(t *testing.T) { testRetract(t, newBackend(t)) })
	t.Run("History", func(t *testing.T) { testHistory(t, newBackend(t)) })
	t.Run("Precision", func(t *testing.T) { testPrecision(t, newBackend(t)) })
	t.Run("Controller", func(t *testing.T) { testController(t, newBackend(t)) })
	t.Run("RangeStore", func(t *testing.T) { testRangeStore(t, newBackend(t)) })
	t.Run("PublishAndLog", func(t *testing.T) { testPublishAndLog(t, newBackend(t)) })
	t.Run("StorableRange", func(t *testing.T) { testStorableRange(t, newBackend(t)) })
}

func testEmptyStore(t *testing.T, b storage.Backend) {
	ctx := context.Background()

	first, err := b.FindFirstAfter(ctx, At(9, 0))
	require.NoError(t, err)
	assert.Nil(t, first)

	last, err := b.FindLastBefore(ctx, At(9, 0))
	require.NoError(t, err)
	assert.Nil(t, last)

	history, err := b.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func testLookups(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	a := Entry(At(9, 0), At(10, 0), "Work")
	c := Entry(At(11, 0), At(12, 30), "Personal")
	Seed(t, b, a, c)

	tests := []struct {
		name      string
		at        time.Time
		wantFirst *entry.Entry
		wantLast  *entry.Entry
	}{
		{"before everything", At(8, 0), &a, nil},
		{"exactly on first start", At(9, 0), &a, &a},
		{"inside first", At(9, 30), &c, &a},
		{"in the gap", At(10, 30), &c, &a},
		{"exactly on second start", At(11, 0), &c, &c},
		{"after everything", At(13, 0), nil, &c},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := b.FindFirstAfter(ctx, tt.at)
			require.NoError(t, err)
			assertEntry(t, tt.wantFirst, first)

			last, err := b.FindLastBefore(ctx, tt.at)
			require.NoError(t, err)
			assertEntry(t, tt.wantLast, last)
		})
	}
}

func testPublishOutOfOrder(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	late := Entry(At(14, 0), At(15, 0), "Work")
	early := Entry(At(8, 0), At(8, 30), "Errands")
	middle := Entry(At(10, 0), At(11, 0), "Work")
	Seed(t, b, late, early, middle)

	got, err := b.FindFirstAfter(ctx, At(0, 0))
	require.NoError(t, err)
	assertEntry(t, &early, got)

	got, err = b.FindFirstAfter(ctx, At(8, 1))
	require.NoError(t, err)
	assertEntry(t, &middle, got)

	got, err = b.FindLastBefore(ctx, At(13, 59))
	require.NoError(t, err)
	assertEntry(t, &middle, got)
}

func testRetract(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	a := Entry(At(9, 0), At(10, 0), "Work")
	c := Entry(At(11, 0), At(12, 0), "Work")
	Seed(t, b, a, c)

	require.NoError(t, b.RetractEntry(ctx, a))

	got, err := b.FindFirstAfter(ctx, At(0, 0))
	require.NoError(t, err)
	assertEntry(t, &c, got)

	got, err = b.FindLastBefore(ctx, At(10, 30))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testHistory(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	e := Entry(At(9, 0), At(10, 0), "Work")

	create, err := entry.NewMutation(entry.KindCreate, e)
	require.NoError(t, err)
	destroy, err := entry.NewMutation(entry.KindDestroy, e)
	require.NoError(t, err)

	require.NoError(t, b.AppendMutation(ctx, create))
	require.NoError(t, b.AppendMutation(ctx, destroy))

	history, err := b.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entry.KindCreate, history[0].Kind)
	assert.Equal(t, entry.KindDestroy, history[1].Kind)
	assert.True(t, history[0].Entry.Equal(e), "history entry = %v", history[0].Entry)
	assert.NotEmpty(t, history[0].ID)
	assert.NotEqual(t, history[0].ID, history[1].ID)
	assert.False(t, history[0].RecordedAt.IsZero())
}

func testPrecision(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	start := time.Date(2024, time.January, 15, 9, 0, 0, 123456789, time.UTC)
	e := Entry(start, start.Add(time.Nanosecond), "Tick")
	Seed(t, b, e)

	got, err := b.FindFirstAfter(ctx, start)
	require.NoError(t, err)
	assertEntry(t, &e, got)

	got, err = b.FindFirstAfter(ctx, start.Add(time.Nanosecond))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = b.FindLastBefore(ctx, start.Add(-time.Nanosecond))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testController(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	mc := controller.NewMutating(b)
	work := Entry(At(9, 0), At(10, 0), "Work")

	require.NoError(t, mc.CreateEntry(ctx, work))

	err := mc.CreateEntry(ctx, Entry(At(9, 30), At(9, 45), "Work"))
	require.ErrorIs(t, err, controller.ErrConflict)

	require.NoError(t, mc.CreateEntry(ctx, Entry(At(10, 0), At(11, 0), "Work")))

	got, err := mc.GetIntersection(ctx, At(9, 30), At(10, 30))
	require.NoError(t, err)
	assert.Equal(t, []entry.Entry{
		Entry(At(9, 30), At(10, 0), "Work"),
		Entry(At(10, 0), At(10, 30), "Work"),
	}, got)

	require.NoError(t, mc.DestroyEntry(ctx, work))
	got, err = mc.GetIntersection(ctx, At(0, 0), At(23, 0))
	require.NoError(t, err)
	assert.Equal(t, []entry.Entry{Entry(At(10, 0), At(11, 0), "Work")}, got)

	history, err := b.History(ctx)
	require.NoError(t, err)
	kinds := make([]entry.MutationKind, 0, len(history))
	for _, r := range history {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []entry.MutationKind{entry.KindCreate, entry.KindCreate, entry.KindDestroy}, kinds)
}

func testRangeStore(t *testing.T, b storage.Backend) {
	rs, ok := b.(controller.RangeStore)
	if !ok {
		t.Skip("backend has no native range query")
	}
	ctx := context.Background()
	a := Entry(At(9, 0), At(10, 0), "Work")
	c := Entry(At(10, 0), At(11, 0), "Work")
	d := Entry(At(12, 0), At(13, 0), "Work")
	Seed(t, b, a, c, d)

	got, err := rs.Intersecting(ctx, At(9, 30), At(12, 0))
	require.NoError(t, err)
	entry.Sort(got)
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(a))
	assert.True(t, got[1].Equal(c))

	got, err = rs.Intersecting(ctx, At(11, 0), At(12, 0))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testPublishAndLog(t *testing.T, b storage.Backend) {
	ap, ok := b.(controller.AtomicPublisher)
	if !ok {
		t.Skip("backend publishes and logs in separate writes")
	}
	ctx := context.Background()
	e := Entry(At(9, 0), At(10, 0), "Work")
	m, err := entry.NewMutation(entry.KindCreate, e)
	require.NoError(t, err)

	require.NoError(t, ap.PublishAndLog(ctx, e, m))

	got, err := b.FindFirstAfter(ctx, At(0, 0))
	require.NoError(t, err)
	assertEntry(t, &e, got)
	history, err := b.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entry.KindCreate, history[0].Kind)
	assert.True(t, history[0].Entry.Equal(e))
}

func testStorableRange(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	mc := controller.NewMutating(b)
	first := Entry(entry.MinTime, entry.MinTime.Add(time.Hour), "Past")
	last := Entry(entry.MaxTime.Add(-time.Hour), entry.MaxTime, "Future")

	require.NoError(t, mc.CreateEntry(ctx, first))
	require.NoError(t, mc.CreateEntry(ctx, last))

	far := time.Date(2300, time.January, 1, 9, 0, 0, 0, time.UTC)
	err := mc.CreateEntry(ctx, Entry(far, far.Add(time.Hour), "Work"))
	require.ErrorIs(t, err, entry.ErrValidation)

	got, err := b.FindFirstAfter(ctx, time.Date(1600, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assertEntry(t, &first, got)
	got, err = b.FindLastBefore(ctx, entry.MaxTime)
	require.NoError(t, err)
	assertEntry(t, &last, got)
	got, err = b.FindLastBefore(ctx, entry.MinTime.Add(-time.Nanosecond))
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = b.FindFirstAfter(ctx, time.Date(2300, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := mc.GetIntersection(ctx,
		time.Date(1600, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2400, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []entry.Entry{first, last}, all)
	assert.Equal(t, 2, Count(t, b))

	history, err := b.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func assertEntry(t *testing.T, expected, actual *entry.Entry) {
	t.Helper()
	if expected == nil {
		assert.Nil(t, actual)
		return
	}
	if assert.NotNil(t, actual) {
		assert.True(t, expected.Equal(*actual), "expected %v, got %v", *expected, *actual)
	}
}
