package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/logbook/internal/entry"
)

// Sentinel errors
var (
	ErrConflict           = errors.New("entry conflicts with stored entries")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrRetractUnsupported = errors.New("backend cannot remove entries")
)

// ConflictError is returned by CreateEntry when the requested interval
// overlaps stored entries. Conflicts holds the overlapping parts, clipped
// to the requested interval and sorted.
type ConflictError struct {
	Entry     entry.Entry
	Conflicts []entry.Entry
}

func (e *ConflictError) Error() string {
	spans := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		spans = append(spans, fmt.Sprintf("%s %s-%s",
			c.Category, c.Start.Format(time.RFC3339Nano), c.End.Format(time.RFC3339Nano)))
	}
	return fmt.Sprintf("entry %s-%s conflicts with %d stored %s: %s",
		e.Entry.Start.Format(time.RFC3339Nano), e.Entry.End.Format(time.RFC3339Nano),
		len(e.Conflicts), entryNoun(len(e.Conflicts)), strings.Join(spans, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StorageError wraps a failure of a backend primitive. Backends return it;
// the controllers pass it through untouched.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s storage: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage returns nil for a nil err and a *StorageError otherwise.
func WrapStorage(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Backend: backend, Op: op, Err: err}
}

func entryNoun(count int) string {
	if count == 1 {
		return "entry"
	}
	return "entries"
}
