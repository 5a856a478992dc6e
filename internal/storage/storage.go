// Package storage holds the built-in backends for the interval controller
// and the pieces shared by the database-backed ones in its subpackages.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/osutil"
)

const (
	// EntriesFile is the name of the JSON Lines entry file
	EntriesFile = "entries.jsonl"
	// MutationsFile is the name of the JSON Lines mutation log
	MutationsFile = "mutations.jsonl"
)

// MutationRecord is a mutation as kept in a backend's log, stamped with an
// id and the time it was recorded.
type MutationRecord struct {
	ID         string             `json:"id" yaml:"id"`
	RecordedAt time.Time          `json:"recorded_at" yaml:"recorded_at"`
	Kind       entry.MutationKind `json:"kind" yaml:"kind"`
	Entry      entry.Entry        `json:"entry" yaml:"entry"`
}

// NewMutationRecord stamps m with a fresh id and the given time.
func NewMutationRecord(m entry.Mutation, at time.Time) MutationRecord {
	return MutationRecord{
		ID:         uuid.NewString(),
		RecordedAt: at.UTC(),
		Kind:       m.Kind,
		Entry:      m.Entry,
	}
}

// History is implemented by every backend in this module so that the
// mutation log can be shown to users. The controllers never read it.
type History interface {
	History(ctx context.Context) ([]MutationRecord, error)
}

// Backend is the full capability set of the stores shipped here.
type Backend interface {
	controller.Backend
	controller.Retractor
	History
	Close() error
}

// DefaultDataDir returns the per-user data directory, creating it if needed.
func DefaultDataDir() (string, error) {
	return osutil.AppDir()
}
