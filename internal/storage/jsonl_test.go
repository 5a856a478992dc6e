package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xolan/logbook/internal/logger"
	"github.com/xolan/logbook/internal/storage"
	"github.com/xolan/logbook/internal/storage/storagetest"
)

func newFileStore(t *testing.T) *storage.FileStore {
	t.Helper()
	s, err := storage.NewFileStore(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	return s
}

func TestFileStore_Conformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Backend {
		return newFileStore(t)
	})
}

func TestFileStore_SkipsMalformedLines(t *testing.T) {
	s := newFileStore(t)
	content := strings.Join([]string{
		`{"start_time":"2024-01-15T09:00:00Z","end_time":"2024-01-15T10:00:00Z","category":"Work"}`,
		`not json at all`,
		`{"start_time":"2024-01-15T12:00:00+01:00","end_time":"2024-01-15T13:00:00+01:00","category":"Local"}`,
		`{"start_time":"2024-01-15T11:00:00Z","end_time":"2024-01-15T10:00:00Z","category":"Inverted"}`,
		`{"start_time":"2024-01-15T11:00:00Z","end_time":"2024-01-15T12:00:00Z","category":"Work"}`,
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(s.EntriesPath(), []byte(content), 0644))

	got, err := s.FindFirstAfter(context.Background(), storagetest.At(9, 30))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, storagetest.At(11, 0), got.Start)

	result, err := storage.ReadEntriesWithWarnings(s.EntriesPath())
	require.NoError(t, err)
	assert.Len(t, result.Entries, 2)
	require.Len(t, result.Warnings, 3)
	assert.Equal(t, 2, result.Warnings[0].LineNumber)
	assert.Equal(t, "not json at all", result.Warnings[0].Content)
	assert.Equal(t, 3, result.Warnings[1].LineNumber)
	assert.Equal(t, 4, result.Warnings[2].LineNumber)
}

func TestFileStore_RetractCreatesBackup(t *testing.T) {
	s := newFileStore(t)
	a := storagetest.Entry(storagetest.At(9, 0), storagetest.At(10, 0), "Work")
	b := storagetest.Entry(storagetest.At(10, 0), storagetest.At(11, 0), "Work")
	storagetest.Seed(t, s, a, b)

	require.NoError(t, s.RetractEntry(context.Background(), a))

	backups := storage.ListBackups(s.EntriesPath())
	require.Len(t, backups, 1)
	assert.Equal(t, 1, backups[0].Number)

	backedUp, err := storage.ReadEntries(backups[0].Path)
	require.NoError(t, err)
	assert.Len(t, backedUp, 2)

	current, err := storage.ReadEntries(s.EntriesPath())
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.True(t, current[0].Equal(b))

	_, err = os.Stat(s.EntriesPath() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestValidateStorage(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		wantLines     int
		wantValid     int
		wantCorrupted int
		wantOverlaps  int
	}{
		{
			name:    "missing file",
			content: "",
		},
		{
			name: "healthy",
			content: `{"start_time":"2024-01-15T09:00:00Z","end_time":"2024-01-15T10:00:00Z","category":"Work"}` + "\n" +
				`{"start_time":"2024-01-15T10:00:00Z","end_time":"2024-01-15T11:00:00Z","category":"Work"}` + "\n",
			wantLines: 2,
			wantValid: 2,
		},
		{
			name: "corrupted and overlapping",
			content: `{"start_time":"2024-01-15T09:00:00Z","end_time":"2024-01-15T10:00:00Z","category":"Work"}` + "\n" +
				`{broken` + "\n" +
				`{"start_time":"2024-01-15T09:30:00Z","end_time":"2024-01-15T11:00:00Z","category":"Work"}` + "\n",
			wantLines:     3,
			wantValid:     2,
			wantCorrupted: 1,
			wantOverlaps:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), storage.EntriesFile)
			if tt.content != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			}

			health, err := storage.ValidateStorage(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLines, health.TotalLines)
			assert.Equal(t, tt.wantValid, health.ValidEntries)
			assert.Equal(t, tt.wantCorrupted, health.CorruptedEntries)
			assert.Equal(t, tt.wantOverlaps, health.Overlaps)
		})
	}
}

func TestReadMutations_SkipsUnknownKinds(t *testing.T) {
	path := filepath.Join(t.TempDir(), storage.MutationsFile)
	content := `{"id":"a","recorded_at":"2024-01-15T10:00:00Z","kind":"create","entry":{"start_time":"2024-01-15T09:00:00Z","end_time":"2024-01-15T10:00:00Z","category":"Work"}}` + "\n" +
		`{"id":"b","recorded_at":"2024-01-15T10:00:00Z","kind":"update","entry":{"start_time":"2024-01-15T09:00:00Z","end_time":"2024-01-15T10:00:00Z","category":"Work"}}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := storage.ReadMutations(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}
