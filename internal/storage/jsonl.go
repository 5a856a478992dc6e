package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/logger"
)

// ParseWarning represents a warning about a corrupted or malformed line
type ParseWarning struct {
	LineNumber int    // Line number in the file (1-indexed)
	Content    string // Raw content of the corrupted line
	Error      string // Description of the parsing error
}

// ReadResult contains the results of reading entries from storage,
// including both successfully parsed entries and any warnings about
// corrupted or malformed lines.
type ReadResult struct {
	Entries  []entry.Entry  // Successfully parsed entries
	Warnings []ParseWarning // Warnings about corrupted lines
}

// FileStore keeps entries and mutations in two JSON Lines files inside one
// directory. Entries are stored in publish order; lookups stream the file
// and never hold more than one candidate in memory.
type FileStore struct {
	mu            sync.RWMutex
	entriesPath   string
	mutationsPath string
	log           logger.Logger
	now           func() time.Time
}

// NewFileStore opens (and creates if needed) a file store in dir.
func NewFileStore(dir string, log logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, controller.WrapStorage("jsonl", "open", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FileStore{
		entriesPath:   filepath.Join(dir, EntriesFile),
		mutationsPath: filepath.Join(dir, MutationsFile),
		log:           log.With(logger.String("backend", "jsonl")),
		now:           time.Now,
	}, nil
}

// EntriesPath returns the path of the entry file.
func (s *FileStore) EntriesPath() string { return s.entriesPath }

// MutationsPath returns the path of the mutation log.
func (s *FileStore) MutationsPath() string { return s.mutationsPath }

// FindFirstAfter returns the entry with the smallest start >= t.
func (s *FileStore) FindFirstAfter(ctx context.Context, t time.Time) (*entry.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *entry.Entry
	err := s.scan(ctx, func(e entry.Entry) {
		if e.Start.Before(t) {
			return
		}
		if best == nil || e.Start.Before(best.Start) {
			found := e
			best = &found
		}
	})
	if err != nil {
		return nil, controller.WrapStorage("jsonl", "find_first_after", err)
	}
	return best, nil
}

// FindLastBefore returns the entry with the largest start <= t.
func (s *FileStore) FindLastBefore(ctx context.Context, t time.Time) (*entry.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *entry.Entry
	err := s.scan(ctx, func(e entry.Entry) {
		if e.Start.After(t) {
			return
		}
		if best == nil || e.Start.After(best.Start) {
			found := e
			best = &found
		}
	})
	if err != nil {
		return nil, controller.WrapStorage("jsonl", "find_last_before", err)
	}
	return best, nil
}

// scan calls fn for every valid entry in the file. Malformed lines are
// skipped.
func (s *FileStore) scan(ctx context.Context, fn func(entry.Entry)) error {
	file, err := os.Open(s.entriesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if lineNumber%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		var e entry.Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			s.log.Debug("skipping malformed line",
				logger.Int("line", lineNumber),
				logger.Error(err))
			continue
		}
		fn(e)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

// PublishEntry appends e to the entry file.
func (s *FileStore) PublishEntry(ctx context.Context, e entry.Entry) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage("jsonl", "publish", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return controller.WrapStorage("jsonl", "publish", appendLine(s.entriesPath, e))
}

// AppendMutation appends m, stamped with an id and time, to the mutation log.
func (s *FileStore) AppendMutation(ctx context.Context, m entry.Mutation) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage("jsonl", "append_mutation", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record := NewMutationRecord(m, s.now())
	return controller.WrapStorage("jsonl", "append_mutation", appendLine(s.mutationsPath, record))
}

// RetractEntry removes the entry equal to e. The file is backed up and then
// rewritten atomically; malformed lines are dropped by the rewrite and
// survive only in the backup.
func (s *FileStore) RetractEntry(ctx context.Context, e entry.Entry) error {
	if err := ctx.Err(); err != nil {
		return controller.WrapStorage("jsonl", "retract", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := ReadEntriesWithWarnings(s.entriesPath)
	if err != nil {
		return controller.WrapStorage("jsonl", "retract", err)
	}

	index := -1
	for i, stored := range result.Entries {
		if stored.Equal(e) {
			index = i
			break
		}
	}
	if index == -1 {
		return controller.ErrEntryNotFound
	}
	if len(result.Warnings) > 0 {
		s.log.Warn("dropping malformed lines while rewriting entry file",
			logger.Int("lines", len(result.Warnings)))
	}

	if err := CreateBackup(s.entriesPath); err != nil {
		return controller.WrapStorage("jsonl", "backup", err)
	}
	kept := append(result.Entries[:index], result.Entries[index+1:]...)
	return controller.WrapStorage("jsonl", "retract", writeEntriesAtomic(s.entriesPath, kept))
}

// History reads the mutation log back.
func (s *FileStore) History(context.Context) ([]MutationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := ReadMutations(s.mutationsPath)
	return records, controller.WrapStorage("jsonl", "history", err)
}

// Validate reports the health of the entry file.
func (s *FileStore) Validate() (StorageHealth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ValidateStorage(s.entriesPath)
}

// Backups lists the backups of the entry file, most recent first.
func (s *FileStore) Backups() []BackupInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ListBackups(s.entriesPath)
}

// Restore replaces the entry file with backup n.
func (s *FileStore) Restore(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RestoreBackup(s.entriesPath, n)
}

// Close is a no-op; files are opened per operation.
func (s *FileStore) Close() error {
	return nil
}

// ReadEntriesWithWarnings reads all entries from a JSON Lines file and
// returns both successfully parsed entries and warnings about any corrupted
// lines. Returns an empty ReadResult if the file doesn't exist.
func ReadEntriesWithWarnings(path string) (ReadResult, error) {
	result := ReadResult{
		Entries:  []entry.Entry{},
		Warnings: []ParseWarning{},
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		lineContent := scanner.Text()

		var e entry.Entry
		if err := json.Unmarshal([]byte(lineContent), &e); err != nil {
			result.Warnings = append(result.Warnings, ParseWarning{
				LineNumber: lineNumber,
				Content:    lineContent,
				Error:      err.Error(),
			})
			continue
		}
		result.Entries = append(result.Entries, e)
	}

	if err := scanner.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// ReadEntries reads all entries from a JSON Lines file, skipping malformed
// lines.
func ReadEntries(path string) ([]entry.Entry, error) {
	result, err := ReadEntriesWithWarnings(path)
	return result.Entries, err
}

// ReadMutations reads a mutation log. Malformed lines are skipped.
func ReadMutations(path string) ([]MutationRecord, error) {
	records := []MutationRecord{}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return records, nil
		}
		return records, err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var r MutationRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		if !r.Kind.Valid() {
			continue
		}
		records = append(records, r)
	}
	return records, scanner.Err()
}

// StorageHealth contains information about the health status of the storage file.
// It provides metrics on total lines, valid entries, corrupted entries, and detailed
// warnings about each corruption.
type StorageHealth struct {
	TotalLines       int            // Total number of lines in the storage file
	ValidEntries     int            // Number of successfully parsed entries
	CorruptedEntries int            // Number of corrupted/malformed lines
	Overlaps         int            // Number of adjacent pairs whose spans overlap
	Warnings         []ParseWarning // Detailed information about each corrupted line
}

// ValidateStorage analyzes the storage file and returns health status
// information. Besides malformed lines it counts overlapping entries, which
// can only appear when the file was edited by hand. Returns empty health
// status if the file doesn't exist.
func ValidateStorage(path string) (StorageHealth, error) {
	health := StorageHealth{
		Warnings: []ParseWarning{},
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return health, nil
		}
		return health, err
	}
	defer func() { _ = file.Close() }()

	if err := countLines(file, &health); err != nil {
		return health, err
	}

	result, err := ReadEntriesWithWarnings(path)
	if err != nil {
		return health, err
	}

	health.ValidEntries = len(result.Entries)
	health.CorruptedEntries = len(result.Warnings)
	health.Warnings = result.Warnings

	entry.Sort(result.Entries)
	for i := 1; i < len(result.Entries); i++ {
		if result.Entries[i-1].Overlaps(result.Entries[i]) {
			health.Overlaps++
		}
	}
	return health, nil
}
