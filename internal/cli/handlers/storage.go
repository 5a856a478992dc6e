package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/storage"
)

// fileStore returns the jsonl backend, or reports that the command needs it.
func fileStore(deps *cli.Deps, command string) (*storage.FileStore, bool) {
	fs, ok := deps.Services.Backend().(*storage.FileStore)
	if !ok {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: '%s' works on the jsonl backend only (current backend: %s)\n", command, deps.Config.Backend)
		deps.Exit(1)
		return nil, false
	}
	return fs, true
}

// ValidateStorage checks the entry file health and reports status
func ValidateStorage(deps *cli.Deps) {
	fs, ok := fileStore(deps, "validate")
	if !ok {
		return
	}

	health, err := fs.Validate()
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to validate storage: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Storage file: %s\n", fs.EntriesPath())
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))

	_, _ = fmt.Fprintf(deps.Stdout, "Total lines:       %d\n", health.TotalLines)
	_, _ = fmt.Fprintf(deps.Stdout, "Valid entries:     %d\n", health.ValidEntries)
	_, _ = fmt.Fprintf(deps.Stdout, "Corrupted entries: %d\n", health.CorruptedEntries)
	_, _ = fmt.Fprintf(deps.Stdout, "Overlapping pairs: %d\n", health.Overlaps)

	if len(health.Warnings) > 0 {
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
		_, _ = fmt.Fprintln(deps.Stdout, "Corrupted lines:")
		for _, warning := range health.Warnings {
			_, _ = fmt.Fprintln(deps.Stdout, cli.FormatCorruptionWarning(warning))
		}
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	if health.CorruptedEntries == 0 && health.Overlaps == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: ✓ Storage file is healthy")
		return
	}
	if health.CorruptedEntries > 0 {
		_, _ = fmt.Fprintf(deps.Stderr, "Status: ⚠ Storage file has %d corrupted line(s)\n", health.CorruptedEntries)
	}
	if health.Overlaps > 0 {
		_, _ = fmt.Fprintf(deps.Stderr, "Status: ⚠ Storage file has %d overlapping %s\n", health.Overlaps, cli.Pluralize("pair", health.Overlaps))
	}
}

// RestoreBackup restores the entry file from backup n (most recent when args is empty)
func RestoreBackup(deps *cli.Deps, args []string) {
	fs, ok := fileStore(deps, "restore")
	if !ok {
		return
	}

	backups := fs.Backups()
	if len(backups) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No backups available")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Available backups:")
	for _, backup := range backups {
		if backup.Number == 1 {
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s (most recent)\n", backup.Number, backup.Path)
		} else {
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s\n", backup.Number, backup.Path)
		}
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	backupNum := 1
	if len(args) > 0 {
		num, err := strconv.Atoi(args[0])
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid backup number '%s'\n", args[0])
			deps.Exit(1)
			return
		}
		if num < 1 || num > storage.MaxBackupCount {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Backup number must be between 1 and %d (got %d)\n", storage.MaxBackupCount, num)
			deps.Exit(1)
			return
		}
		backupNum = num
	}

	if err := fs.Restore(backupNum); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to restore backup: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Successfully restored from backup %d\n", backupNum)
}
