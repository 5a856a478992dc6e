// Package badger stores entries in BadgerDB. Keys encode the start instant
// so that both lookups are a single iterator seek.
package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/logger"
	"github.com/xolan/logbook/internal/storage"
)

const backendName = "badger"

var (
	entryPrefix    = []byte("e/")
	mutationPrefix = []byte("m/")
	sequenceKey    = []byte("seq/mutations")
)

// Config holds configuration for a Badger store.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. Nil disables it.
	Logger logger.Logger
}

// DefaultConfig returns a durable configuration for path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts logger.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	log logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.log.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.log.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.log.Debugf(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.log.Debugf(format, args...) }

// Store is a Badger-backed entry store.
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
	now func() time.Time
}

// Open opens the database described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{log: cfg.Logger.With(logger.String("backend", backendName))})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, controller.WrapStorage(backendName, "open", err)
	}
	seq, err := db.GetSequence(sequenceKey, 64)
	if err != nil {
		_ = db.Close()
		return nil, controller.WrapStorage(backendName, "open sequence", err)
	}
	return &Store{db: db, seq: seq, now: time.Now}, nil
}

// Close releases the mutation sequence and closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	var errs []error
	if s.seq != nil {
		errs = append(errs, s.seq.Release())
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

// orderKey encodes t so that byte order equals time order, including
// instants before 1970. t is clamped to the storable range first.
func orderKey(t time.Time) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(entry.ClampTime(t).UnixNano())^(1<<63))
	return b[:]
}

func entryKey(t time.Time) []byte {
	return append(append([]byte{}, entryPrefix...), orderKey(t)...)
}

func mutationKey(seq uint64) []byte {
	key := append([]byte{}, mutationPrefix...)
	return binary.BigEndian.AppendUint64(key, seq)
}

// FindFirstAfter returns the entry with the smallest start >= t.
func (s *Store) FindFirstAfter(ctx context.Context, t time.Time) (*entry.Entry, error) {
	return s.seek(ctx, t, false, "find_first_after")
}

// FindLastBefore returns the entry with the largest start <= t.
func (s *Store) FindLastBefore(ctx context.Context, t time.Time) (*entry.Entry, error) {
	if t.Before(entry.MinTime) {
		return nil, nil
	}
	return s.seek(ctx, t, true, "find_last_before")
}

func (s *Store) seek(ctx context.Context, t time.Time, reverse bool, op string) (*entry.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, controller.WrapStorage(backendName, op, err)
	}

	var found *entry.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = reverse
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(entryKey(t))
		if !it.ValidForPrefix(entryPrefix) {
			return nil
		}
		return it.Item().Value(func(val []byte) error {
			var e entry.Entry
			if err := json.Unmarshal(val, &e); err != nil {
				return fmt.Errorf("decode %x: %w", it.Item().Key(), err)
			}
			found = &e
			return nil
		})
	})
	if err != nil {
		return nil, controller.WrapStorage(backendName, op, err)
	}
	return found, nil
}

// PublishEntry stores e under its start key.
func (s *Store) PublishEntry(ctx context.Context, e entry.Entry) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage(backendName, "publish", err)
	}
	val, err := json.Marshal(e)
	if err != nil {
		return controller.WrapStorage(backendName, "publish", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(e.Start), val)
	})
	return controller.WrapStorage(backendName, "publish", err)
}

// PublishAndLog stores e and its mutation in one transaction.
func (s *Store) PublishAndLog(ctx context.Context, e entry.Entry, m entry.Mutation) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage(backendName, "publish", err)
	}
	val, err := json.Marshal(e)
	if err != nil {
		return controller.WrapStorage(backendName, "publish", err)
	}
	// A sequence number lost to a failed commit leaves a gap, which History
	// does not care about.
	n, err := s.seq.Next()
	if err != nil {
		return controller.WrapStorage(backendName, "append_mutation", err)
	}
	record, err := json.Marshal(storage.NewMutationRecord(m, s.now()))
	if err != nil {
		return controller.WrapStorage(backendName, "append_mutation", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(entryKey(e.Start), val); err != nil {
			return err
		}
		return txn.Set(mutationKey(n), record)
	})
	return controller.WrapStorage(backendName, "publish", err)
}

// RetractEntry deletes the entry equal to e.
func (s *Store) RetractEntry(ctx context.Context, e entry.Entry) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage(backendName, "retract", err)
	}
	key := entryKey(e.Start)
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return controller.ErrEntryNotFound
		}
		if err != nil {
			return err
		}
		var stored entry.Entry
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &stored) }); err != nil {
			return err
		}
		if !stored.Equal(e) {
			return controller.ErrEntryNotFound
		}
		return txn.Delete(key)
	})
	if errors.Is(err, controller.ErrEntryNotFound) {
		return err
	}
	return controller.WrapStorage(backendName, "retract", err)
}

// AppendMutation stores m under the next sequence number.
func (s *Store) AppendMutation(ctx context.Context, m entry.Mutation) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage(backendName, "append_mutation", err)
	}
	n, err := s.seq.Next()
	if err != nil {
		return controller.WrapStorage(backendName, "append_mutation", err)
	}
	val, err := json.Marshal(storage.NewMutationRecord(m, s.now()))
	if err != nil {
		return controller.WrapStorage(backendName, "append_mutation", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(mutationKey(n), val)
	})
	return controller.WrapStorage(backendName, "append_mutation", err)
}

// History returns the mutation log in sequence order.
func (s *Store) History(ctx context.Context) ([]storage.MutationRecord, error) {
	records := []storage.MutationRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(mutationPrefix); it.ValidForPrefix(mutationPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r storage.MutationRecord
			if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &r) }); err != nil {
				return err
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, controller.WrapStorage(backendName, "history", err)
	}
	return records, nil
}
