// Package timer keeps the state of a running stopwatch in a small JSON file
// next to the configuration. Stopping the timer turns the elapsed span into
// an entry.
package timer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xolan/logbook/internal/osutil"
)

// TimerFile is the name of the JSON timer state file
const TimerFile = "timer.json"

// TimerState represents the state of an active timer
type TimerState struct {
	StartedAt   time.Time `json:"started_at"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
}

// Elapsed returns the time between StartedAt and now.
func (s TimerState) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// GetTimerPath returns the path to the timer state file in the application
// directory, creating the directory if it doesn't exist.
func GetTimerPath() (string, error) {
	return osutil.AppFile(TimerFile)
}

// SaveTimerState writes the timer state to the timer file.
// Overwrites the file if it exists. Creates the file with 0644 permissions.
// Uses atomic write pattern (write to temp file, then rename) for safety.
func SaveTimerState(path string, state TimerState) error {
	state.StartedAt = state.StartedAt.UTC()
	// TimerState holds only JSON-safe types, so Marshal cannot fail
	data, _ := json.MarshalIndent(state, "", "  ")

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}

// LoadTimerState reads the timer state from the timer file.
// Returns nil if the file doesn't exist (no active timer).
// Returns an error if the file exists but cannot be read or parsed.
func LoadTimerState(path string) (*TimerState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var state TimerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("corrupted timer file %s: %w", path, err)
	}
	if state.StartedAt.IsZero() || state.Category == "" {
		return nil, fmt.Errorf("corrupted timer file %s: missing started_at or category", path)
	}
	state.StartedAt = state.StartedAt.UTC()

	return &state, nil
}

// ClearTimerState removes the timer state file.
// Returns nil if the file doesn't exist (idempotent operation).
func ClearTimerState(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsTimerRunning checks if an active timer exists.
// Returns true if a valid timer state file exists, false otherwise.
func IsTimerRunning(path string) (bool, error) {
	state, err := LoadTimerState(path)
	if err != nil {
		return false, err
	}
	return state != nil, nil
}
