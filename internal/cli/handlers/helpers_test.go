package handlers

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/logbook/internal/cli"
	"github.com/xolan/logbook/internal/config"
	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/storage"
	"github.com/xolan/logbook/internal/timer"
)

// testNow is a Wednesday afternoon in UTC.
var testNow = time.Date(2024, time.January, 17, 15, 0, 0, 0, time.UTC)

func at(day, hour, min int) time.Time {
	return time.Date(2024, time.January, day, hour, min, 0, 0, time.UTC)
}

type testEnv struct {
	deps   *cli.Deps
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	exit   *int
	dir    string
}

func setupTestDeps(t *testing.T, backend storage.Backend) *testEnv {
	t.Helper()
	if backend == nil {
		backend = storage.NewMemoryStore()
	}
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendMemory
	cfg.Timezone = "UTC"

	clock := func() time.Time { return testNow }
	paths := service.Paths{
		Timer:  filepath.Join(tmpDir, timer.TimerFile),
		Config: filepath.Join(tmpDir, "config.toml"),
	}
	services, err := service.NewServicesWithBackend(backend, paths, cfg, nil, service.WithClock(clock))
	if err != nil {
		t.Fatalf("failed to create services: %v", err)
	}
	t.Cleanup(func() { _ = services.Close() })

	env := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		exit:   new(int),
		dir:    tmpDir,
	}
	env.deps = &cli.Deps{
		Stdout:     env.stdout,
		Stderr:     env.stderr,
		Stdin:      strings.NewReader(""),
		Exit:       func(code int) { *env.exit = code },
		Services:   services,
		Config:     cfg,
		ConfigPath: paths.Config,
		Now:        clock,
	}
	return env
}

func (env *testEnv) seed(t *testing.T, entries ...entry.Entry) {
	t.Helper()
	for _, e := range entries {
		if err := env.deps.Services.Controller.CreateEntry(context.Background(), e); err != nil {
			t.Fatalf("failed to seed %+v: %v", e, err)
		}
	}
}

func mustEntry(t *testing.T, start, end time.Time, category, description string) entry.Entry {
	t.Helper()
	e, err := entry.New(start, end, category, description)
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}
	return e
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, output)
	}
}

func mustDuration(t *testing.T, s string) time.Duration {
	t.Helper()
	d, err := time.ParseDuration(s)
	if err != nil {
		t.Fatalf("time.ParseDuration(%q): %v", s, err)
	}
	return d
}

func containsLine(output, prefix string) bool {
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
