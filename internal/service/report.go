package service

import (
	"context"
	"time"

	"github.com/xolan/logbook/internal/config"
	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/stats"
	"github.com/xolan/logbook/internal/timeutil"
)

// ReportService provides operations for generating reports
type ReportService struct {
	ctrl   *controller.MutatingController
	config config.Config
	now    func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(ctrl *controller.MutatingController, cfg config.Config, now func() time.Time) *ReportService {
	return &ReportService{
		ctrl:   ctrl,
		config: cfg,
		now:    now,
	}
}

// Report totals the clipped durations per category for the date range and
// compares them with the period just before it.
func (s *ReportService) Report(ctx context.Context, dateRange DateRangeSpec, f *filter.Filter) (*ReportData, error) {
	now := s.now()
	w, period, err := resolveDateRange(dateRange, now, s.config.WeekStart())
	if err != nil {
		return nil, err
	}

	entries, err := s.load(ctx, w, f)
	if err != nil {
		return nil, err
	}

	data := &ReportData{
		Statistics: stats.CalculateStatistics(entries, w, now.Location()),
		Categories: stats.CalculateCategoryBreakdown(entries, w),
		Period:     period,
		Window:     w,
	}

	prev := previousWindow(dateRange, w, now, s.config.WeekStart())
	if !prev.Empty() && !prev.Start.Before(timeutil.Earliest) {
		previous, err := s.load(ctx, prev, f)
		if err != nil {
			return nil, err
		}
		data.Previous = stats.CalculateStatistics(previous, prev, now.Location())
		data.PreviousWindow = prev
	}

	return data, nil
}

func (s *ReportService) load(ctx context.Context, w timeutil.Window, f *filter.Filter) ([]entry.Entry, error) {
	entries, err := s.ctrl.GetIntersection(ctx, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	return filter.FilterEntries(entries, f), nil
}
