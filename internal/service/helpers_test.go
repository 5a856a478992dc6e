package service

import (
	"context"
	"testing"
	"time"

	"github.com/xolan/logbook/internal/config"
	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/storage"
)

// testNow is a Wednesday afternoon in UTC.
var testNow = time.Date(2024, time.January, 17, 15, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func at(day, hour, min int) time.Time {
	return time.Date(2024, time.January, day, hour, min, 0, 0, time.UTC)
}

type fixture struct {
	store  *storage.MemoryStore
	ctrl   *controller.MutatingController
	entry  *EntryService
	report *ReportService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	ctrl := controller.NewMutating(store)
	cfg := config.DefaultConfig()
	return &fixture{
		store:  store,
		ctrl:   ctrl,
		entry:  NewEntryService(ctrl, store, cfg, fixedClock(now)),
		report: NewReportService(ctrl, cfg, fixedClock(now)),
	}
}

func (f *fixture) seed(t *testing.T, entries ...entry.Entry) {
	t.Helper()
	for _, e := range entries {
		if err := f.ctrl.CreateEntry(context.Background(), e); err != nil {
			t.Fatalf("failed to seed %+v: %v", e, err)
		}
	}
}

func mustEntry(t *testing.T, start, end time.Time, category, description string) entry.Entry {
	t.Helper()
	e, err := entry.New(start, end, category, description)
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}
	return e
}
