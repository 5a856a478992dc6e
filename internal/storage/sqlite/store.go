// Package sqlite provides a SQLite-backed entry store. Besides the point
// lookups it answers interval queries natively.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/storage"
)

const backendName = "sqlite"

//go:embed schema.sql
var schema string

// Store persists entries and the mutation log in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toNanos(value time.Time) int64 {
	return entry.ClampTime(value.UTC()).UnixNano()
}

func fromNanos(value int64) time.Time {
	return time.Unix(0, value).UTC()
}

// Open opens a SQLite store at path and creates the schema. The special
// path ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, controller.WrapStorage(backendName, "open", err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, controller.WrapStorage(backendName, "ping", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, controller.WrapStorage(backendName, "create schema", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// FindFirstAfter returns the entry with the smallest start >= t.
func (s *Store) FindFirstAfter(ctx context.Context, t time.Time) (*entry.Entry, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT start_ns, end_ns, category, description FROM entries
		 WHERE start_ns >= ? ORDER BY start_ns ASC LIMIT 1`,
		toNanos(t),
	)
	return s.scanOne(row, "find_first_after")
}

// FindLastBefore returns the entry with the largest start <= t.
func (s *Store) FindLastBefore(ctx context.Context, t time.Time) (*entry.Entry, error) {
	if t.Before(entry.MinTime) {
		return nil, nil
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT start_ns, end_ns, category, description FROM entries
		 WHERE start_ns <= ? ORDER BY start_ns DESC LIMIT 1`,
		toNanos(t),
	)
	return s.scanOne(row, "find_last_before")
}

func (s *Store) scanOne(row *sql.Row, op string) (*entry.Entry, error) {
	var (
		startNs, endNs        int64
		category, description string
	)
	if err := row.Scan(&startNs, &endNs, &category, &description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, controller.WrapStorage(backendName, op, err)
	}
	e := entry.Entry{
		Start:       fromNanos(startNs),
		End:         fromNanos(endNs),
		Category:    category,
		Description: description,
	}
	return &e, nil
}

// Intersecting returns the stored entries overlapping [start, end).
func (s *Store) Intersecting(ctx context.Context, start, end time.Time) ([]entry.Entry, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT start_ns, end_ns, category, description FROM entries
		 WHERE start_ns < ? AND end_ns > ? ORDER BY start_ns ASC`,
		toNanos(end), toNanos(start),
	)
	if err != nil {
		return nil, controller.WrapStorage(backendName, "intersecting", err)
	}
	defer func() { _ = rows.Close() }()

	var out []entry.Entry
	for rows.Next() {
		var (
			startNs, endNs        int64
			category, description string
		)
		if err := rows.Scan(&startNs, &endNs, &category, &description); err != nil {
			return nil, controller.WrapStorage(backendName, "intersecting", err)
		}
		out = append(out, entry.Entry{
			Start:       fromNanos(startNs),
			End:         fromNanos(endNs),
			Category:    category,
			Description: description,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, controller.WrapStorage(backendName, "intersecting", err)
	}
	return out, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PublishEntry inserts e.
func (s *Store) PublishEntry(ctx context.Context, e entry.Entry) error {
	return controller.WrapStorage(backendName, "publish", insertEntry(ctx, s.sqlDB, e))
}

func insertEntry(ctx context.Context, x execer, e entry.Entry) error {
	_, err := x.ExecContext(ctx,
		`INSERT INTO entries (start_ns, end_ns, category, description) VALUES (?, ?, ?, ?)`,
		toNanos(e.Start), toNanos(e.End), e.Category, e.Description,
	)
	return err
}

// PublishAndLog inserts e and its mutation in one transaction.
func (s *Store) PublishAndLog(ctx context.Context, e entry.Entry, m entry.Mutation) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return controller.WrapStorage(backendName, "begin", err)
	}
	if err := insertEntry(ctx, tx, e); err != nil {
		_ = tx.Rollback()
		return controller.WrapStorage(backendName, "publish", err)
	}
	if err := s.insertMutation(ctx, tx, m); err != nil {
		_ = tx.Rollback()
		return controller.WrapStorage(backendName, "append_mutation", err)
	}
	return controller.WrapStorage(backendName, "commit", tx.Commit())
}

// RetractEntry deletes the row equal to e.
func (s *Store) RetractEntry(ctx context.Context, e entry.Entry) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM entries WHERE start_ns = ? AND end_ns = ? AND category = ? AND description = ?`,
		toNanos(e.Start), toNanos(e.End), e.Category, e.Description,
	)
	if err != nil {
		return controller.WrapStorage(backendName, "retract", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return controller.WrapStorage(backendName, "retract", err)
	}
	if n == 0 {
		return controller.ErrEntryNotFound
	}
	return nil
}

// AppendMutation inserts m into the mutation table.
func (s *Store) AppendMutation(ctx context.Context, m entry.Mutation) error {
	return controller.WrapStorage(backendName, "append_mutation", s.insertMutation(ctx, s.sqlDB, m))
}

func (s *Store) insertMutation(ctx context.Context, x execer, m entry.Mutation) error {
	record := storage.NewMutationRecord(m, s.now())
	_, err := x.ExecContext(ctx,
		`INSERT INTO mutations (id, kind, recorded_at_ns, start_ns, end_ns, category, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		string(record.Kind),
		toNanos(record.RecordedAt),
		toNanos(record.Entry.Start),
		toNanos(record.Entry.End),
		record.Entry.Category,
		record.Entry.Description,
	)
	return err
}

// History returns the mutation log in insertion order.
func (s *Store) History(ctx context.Context) ([]storage.MutationRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, kind, recorded_at_ns, start_ns, end_ns, category, description
		 FROM mutations ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, controller.WrapStorage(backendName, "history", err)
	}
	defer func() { _ = rows.Close() }()

	records := []storage.MutationRecord{}
	for rows.Next() {
		var (
			r                          storage.MutationRecord
			kind                       string
			recordedNs, startNs, endNs int64
			category, description      string
		)
		if err := rows.Scan(&r.ID, &kind, &recordedNs, &startNs, &endNs, &category, &description); err != nil {
			return nil, controller.WrapStorage(backendName, "history", err)
		}
		r.Kind, err = entry.ParseMutationKind(kind)
		if err != nil {
			return nil, controller.WrapStorage(backendName, "history", err)
		}
		r.RecordedAt = fromNanos(recordedNs)
		r.Entry = entry.Entry{
			Start:       fromNanos(startNs),
			End:         fromNanos(endNs),
			Category:    category,
			Description: description,
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, controller.WrapStorage(backendName, "history", err)
	}
	return records, nil
}
