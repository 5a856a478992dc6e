package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/logger"
)

// MutatingController adds conflict-checked writes on top of Controller.
// Writes from one MutatingController are serialised; several controllers
// writing to the same backend must be coordinated by the caller.
type MutatingController struct {
	*Controller

	backend Backend
	atomic  AtomicPublisher // nil when publish and log are separate writes
	retract Retractor       // nil when the backend cannot remove entries
	mu      sync.Mutex
}

// NewMutating returns a MutatingController reading from and writing to b.
func NewMutating(b Backend, opts ...Option) *MutatingController {
	mc := &MutatingController{
		Controller: New(b, opts...),
		backend:    b,
	}
	if a, ok := b.(AtomicPublisher); ok {
		mc.atomic = a
	}
	if r, ok := b.(Retractor); ok {
		mc.retract = r
	}
	return mc
}

// CanDestroy reports whether the backend supports DestroyEntry.
func (mc *MutatingController) CanDestroy() bool {
	return mc.retract != nil
}

// CreateEntry publishes e unless it overlaps a stored entry, in which case a
// *ConflictError listing the overlapping parts is returned and nothing is
// written. On success exactly one create mutation is appended; if the
// mutation cannot be recorded the entry is not left published.
func (mc *MutatingController) CreateEntry(ctx context.Context, e entry.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	conflicts, err := mc.GetIntersection(ctx, e.Start, e.End)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		mc.log.Debug("create rejected",
			logger.Time("start", e.Start),
			logger.Time("end", e.End),
			logger.Int("conflicts", len(conflicts)))
		return &ConflictError{Entry: e, Conflicts: conflicts}
	}

	m, err := entry.NewMutation(entry.KindCreate, e)
	if err != nil {
		return err
	}
	if err := mc.publish(ctx, e, m); err != nil {
		return err
	}
	mc.log.Debug("entry created",
		logger.Time("start", e.Start),
		logger.String("category", e.Category))
	return nil
}

// DestroyEntry removes the stored entry equal to e and appends a destroy
// mutation. It returns ErrEntryNotFound when no stored entry matches exactly
// and ErrRetractUnsupported when the backend cannot remove entries.
func (mc *MutatingController) DestroyEntry(ctx context.Context, e entry.Entry) error {
	if mc.retract == nil {
		return ErrRetractUnsupported
	}
	if err := e.Validate(); err != nil {
		return err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	stored, err := mc.backend.FindFirstAfter(ctx, e.Start)
	if err != nil {
		return err
	}
	if stored == nil || !stored.Equal(e) {
		return ErrEntryNotFound
	}

	m, err := entry.NewMutation(entry.KindDestroy, e)
	if err != nil {
		return err
	}
	if err := mc.retract.RetractEntry(ctx, e); err != nil {
		return err
	}
	if appendErr := mc.backend.AppendMutation(ctx, m); appendErr != nil {
		if err := mc.backend.PublishEntry(context.WithoutCancel(ctx), e); err != nil {
			mc.log.Error("destroyed entry could not be restored",
				logger.Time("start", e.Start),
				logger.Error(err))
			return errors.Join(appendErr, err)
		}
		return appendErr
	}
	mc.log.Debug("entry destroyed",
		logger.Time("start", e.Start),
		logger.String("category", e.Category))
	return nil
}

// publish stores e with its create mutation. Without an atomic backend the
// entry is retracted again when the mutation cannot be appended.
func (mc *MutatingController) publish(ctx context.Context, e entry.Entry, m entry.Mutation) error {
	if mc.atomic != nil {
		return mc.atomic.PublishAndLog(ctx, e, m)
	}
	if err := mc.backend.PublishEntry(ctx, e); err != nil {
		return err
	}
	appendErr := mc.backend.AppendMutation(ctx, m)
	if appendErr == nil || mc.retract == nil {
		return appendErr
	}
	if err := mc.retract.RetractEntry(context.WithoutCancel(ctx), e); err != nil {
		mc.log.Error("created entry could not be rolled back",
			logger.Time("start", e.Start),
			logger.Error(err))
		return errors.Join(appendErr, err)
	}
	return appendErr
}
