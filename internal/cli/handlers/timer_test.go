package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/xolan/logbook/internal/timer"
)

func startTimerAt(t *testing.T, env *testEnv, startedAt time.Time, category, description string) {
	t.Helper()
	state := timer.TimerState{StartedAt: startedAt, Category: category, Description: description}
	if err := timer.SaveTimerState(filepath.Join(env.dir, timer.TimerFile), state); err != nil {
		t.Fatalf("failed to save timer state: %v", err)
	}
}

func timerRunning(t *testing.T, env *testEnv) bool {
	t.Helper()
	running, err := env.deps.Services.Timer.IsRunning()
	if err != nil {
		t.Fatalf("IsRunning: %v", err)
	}
	return running
}

func TestStartTimer(t *testing.T) {
	env := setupTestDeps(t, nil)

	StartTimer(env.deps, "code review @work", false)

	if *env.exit != 0 {
		t.Fatalf("expected exit 0, got %d; stderr: %s", *env.exit, env.stderr.String())
	}
	if env.stdout.String() != "Timer started: code review [@work]\n" {
		t.Errorf("unexpected output: %q", env.stdout.String())
	}
	if !timerRunning(t, env) {
		t.Error("expected timer to be running")
	}
}

func TestStartTimer_MissingCategory(t *testing.T) {
	env := setupTestDeps(t, nil)

	StartTimer(env.deps, "code review", false)

	if *env.exit != 1 {
		t.Errorf("expected exit 1, got %d", *env.exit)
	}
	assertContains(t, env.stderr.String(), "Error: Missing @category")
	assertContains(t, env.stderr.String(), "Usage: logbook start")
	if timerRunning(t, env) {
		t.Error("timer should not be running")
	}
}

func TestStartTimer_AlreadyRunning(t *testing.T) {
	env := setupTestDeps(t, nil)
	startTimerAt(t, env, at(17, 14, 15), "work", "standup")

	StartTimer(env.deps, "lunch @home", false)

	if *env.exit != 1 {
		t.Errorf("expected exit 1, got %d", *env.exit)
	}
	stderr := env.stderr.String()
	assertContains(t, stderr, "Warning: A timer is already running")
	assertContains(t, stderr, "Current timer: standup [@work]")
	assertContains(t, stderr, "Started: today at 14:15")
	assertContains(t, stderr, "--force")
}

func TestStartTimer_Force(t *testing.T) {
	env := setupTestDeps(t, nil)
	startTimerAt(t, env, at(17, 14, 15), "work", "standup")

	StartTimer(env.deps, "lunch @home", true)

	if *env.exit != 0 {
		t.Fatalf("expected exit 0, got %d; stderr: %s", *env.exit, env.stderr.String())
	}
	assertContains(t, env.stdout.String(), "Timer started: lunch [@home]")
	assertContains(t, env.stdout.String(), "(Previous timer was overwritten)")
}

func TestStopTimer(t *testing.T) {
	env := setupTestDeps(t, nil)
	startTimerAt(t, env, at(17, 14, 15), "work", "standup")

	StopTimer(context.Background(), env.deps)

	if *env.exit != 0 {
		t.Fatalf("expected exit 0, got %d; stderr: %s", *env.exit, env.stderr.String())
	}
	if env.stdout.String() != "Stopped: standup [@work] (45m)\n" {
		t.Errorf("unexpected output: %q", env.stdout.String())
	}
	if timerRunning(t, env) {
		t.Error("timer should be cleared after stop")
	}

	entries, err := env.deps.Services.Controller.GetIntersection(context.Background(), at(17, 0, 0), at(18, 0, 0))
	if err != nil {
		t.Fatalf("GetIntersection: %v", err)
	}
	if len(entries) != 1 || !entries[0].Start.Equal(at(17, 14, 15)) || !entries[0].End.Equal(testNow) {
		t.Errorf("unexpected stored entries: %+v", entries)
	}
}

func TestStopTimer_NoTimer(t *testing.T) {
	env := setupTestDeps(t, nil)

	StopTimer(context.Background(), env.deps)

	if *env.exit != 1 {
		t.Errorf("expected exit 1, got %d", *env.exit)
	}
	assertContains(t, env.stderr.String(), "Error: No timer is running")
}

func TestStopTimer_TooShort(t *testing.T) {
	env := setupTestDeps(t, nil)
	StartTimer(env.deps, "standup @work", false)
	env.stdout.Reset()

	StopTimer(context.Background(), env.deps)

	if *env.exit != 1 {
		t.Errorf("expected exit 1, got %d", *env.exit)
	}
	assertContains(t, env.stderr.String(), "less than a second")
	assertContains(t, env.stderr.String(), "logbook cancel")
}

func TestStopTimer_ConflictKeepsTimer(t *testing.T) {
	env := setupTestDeps(t, nil)
	env.seed(t, mustEntry(t, at(17, 14, 30), at(17, 14, 40), "home", "call"))
	startTimerAt(t, env, at(17, 14, 15), "work", "standup")

	StopTimer(context.Background(), env.deps)

	if *env.exit != 1 {
		t.Errorf("expected exit 1, got %d", *env.exit)
	}
	stderr := env.stderr.String()
	assertContains(t, stderr, "Error: Entry overlaps 1 stored entry:")
	assertContains(t, stderr, "  14:30-14:40  call [@home] (10m)")
	assertContains(t, stderr, "The timer is still running")
	if !timerRunning(t, env) {
		t.Error("timer should still be running after a conflict")
	}
}

func TestCancelTimer(t *testing.T) {
	env := setupTestDeps(t, nil)
	startTimerAt(t, env, at(17, 14, 15), "work", "standup")

	CancelTimer(env.deps)

	if *env.exit != 0 {
		t.Fatalf("expected exit 0, got %d", *env.exit)
	}
	if env.stdout.String() != "Timer cancelled: standup [@work] (45m discarded)\n" {
		t.Errorf("unexpected output: %q", env.stdout.String())
	}
	if timerRunning(t, env) {
		t.Error("timer should be cleared after cancel")
	}

	CancelTimer(env.deps)
	if *env.exit != 1 {
		t.Errorf("expected exit 1 for a second cancel, got %d", *env.exit)
	}
	assertContains(t, env.stderr.String(), "Error: No timer is running")
}

func TestShowTimerStatus(t *testing.T) {
	env := setupTestDeps(t, nil)

	ShowTimerStatus(env.deps)
	assertContains(t, env.stdout.String(), "No timer running")

	env.stdout.Reset()
	startTimerAt(t, env, at(16, 22, 0), "ops", "")

	ShowTimerStatus(env.deps)

	out := env.stdout.String()
	assertContains(t, out, "Timer running:")
	assertContains(t, out, "  @ops")
	assertContains(t, out, "Started: Tue Jan 16 at 22:00")
	assertContains(t, out, "Elapsed: 17h")
}
