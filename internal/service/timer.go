package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/timer"
)

// Timer-specific errors
var (
	ErrTimerAlreadyRunning = errors.New("timer is already running")
	ErrNoTimerRunning      = errors.New("no timer is running")
	ErrTimerTooShort       = errors.New("timer has not run for a full second")
)

// TimerService provides operations for managing the timer
type TimerService struct {
	timerPath string
	ctrl      *controller.MutatingController
	now       func() time.Time
}

// NewTimerService creates a new TimerService
func NewTimerService(timerPath string, ctrl *controller.MutatingController, now func() time.Time) *TimerService {
	return &TimerService{
		timerPath: timerPath,
		ctrl:      ctrl,
		now:       now,
	}
}

// Start starts a new timer. description must carry an @category token,
// e.g. "code review @work".
// If force is true, it will override any existing timer.
// Returns the existing timer state if one is running and force is false.
func (s *TimerService) Start(description string, force bool) (*timer.TimerState, *timer.TimerState, error) {
	cleanDesc, category := entry.ParseCategory(strings.TrimSpace(description))
	if category == "" {
		return nil, nil, entry.ErrMissingCategory
	}

	existingTimer, err := timer.LoadTimerState(s.timerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check timer status: %w", err)
	}
	if existingTimer != nil && !force {
		return nil, existingTimer, ErrTimerAlreadyRunning
	}

	// Whole seconds keep the stored entry readable.
	state := timer.TimerState{
		StartedAt:   s.now().UTC().Truncate(time.Second),
		Category:    category,
		Description: cleanDesc,
	}
	if err := timer.SaveTimerState(s.timerPath, state); err != nil {
		return nil, nil, fmt.Errorf("failed to save timer state: %w", err)
	}

	return &state, existingTimer, nil
}

// Stop stops the current timer and stores [StartedAt, now) as an entry.
// When the span conflicts with stored entries the timer keeps running and
// the *controller.ConflictError is returned.
func (s *TimerService) Stop(ctx context.Context) (*entry.Entry, *timer.TimerState, error) {
	state, err := timer.LoadTimerState(s.timerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load timer state: %w", err)
	}
	if state == nil {
		return nil, nil, ErrNoTimerRunning
	}

	end := s.now().UTC().Truncate(time.Second)
	if !end.After(state.StartedAt) {
		return nil, state, ErrTimerTooShort
	}

	e, err := entry.New(state.StartedAt, end, state.Category, state.Description)
	if err != nil {
		return nil, state, err
	}
	if err := s.ctrl.CreateEntry(ctx, e); err != nil {
		return nil, state, err
	}

	// The entry is saved; a stale timer file is overwritten on next start.
	_ = timer.ClearTimerState(s.timerPath)

	return &e, state, nil
}

// Cancel cancels the current timer without creating an entry
func (s *TimerService) Cancel() (*timer.TimerState, error) {
	state, err := timer.LoadTimerState(s.timerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load timer state: %w", err)
	}
	if state == nil {
		return nil, ErrNoTimerRunning
	}

	if err := timer.ClearTimerState(s.timerPath); err != nil {
		return nil, fmt.Errorf("failed to clear timer: %w", err)
	}
	return state, nil
}

// Status returns the current timer status
func (s *TimerService) Status() (*TimerStatus, error) {
	state, err := timer.LoadTimerState(s.timerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load timer state: %w", err)
	}

	status := &TimerStatus{
		Running: state != nil,
		State:   state,
	}
	if state != nil {
		status.ElapsedTime = state.Elapsed(s.now())
	}
	return status, nil
}

// IsRunning checks if a timer is currently running
func (s *TimerService) IsRunning() (bool, error) {
	return timer.IsTimerRunning(s.timerPath)
}
