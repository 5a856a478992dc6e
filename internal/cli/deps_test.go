package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xolan/logbook/internal/config"
	"github.com/xolan/logbook/internal/osutil"
	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/storage"
	"github.com/xolan/logbook/internal/timer"
)

func newTestServices(t *testing.T, cfg config.Config) *service.Services {
	t.Helper()
	dir := t.TempDir()
	paths := service.Paths{
		Timer:  filepath.Join(dir, timer.TimerFile),
		Config: filepath.Join(dir, config.ConfigFile),
	}
	services, err := service.NewServicesWithBackend(storage.NewMemoryStore(), paths, cfg, nil)
	if err != nil {
		t.Fatalf("failed to create services: %v", err)
	}
	t.Cleanup(func() { _ = services.Close() })
	return services
}

func TestNewDeps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	services := newTestServices(t, cfg)

	deps := NewDeps(services, cfg)
	if deps == nil {
		t.Fatal("expected non-nil deps")
	}
	if deps.Services != services {
		t.Error("expected services to match")
	}
	if deps.Stdout == nil || deps.Stderr == nil || deps.Stdin == nil {
		t.Error("expected standard streams to be set")
	}
	if deps.Exit == nil {
		t.Error("expected non-nil Exit")
	}
	if deps.Now == nil {
		t.Error("expected non-nil Now")
	}
	if deps.Logger() == nil {
		t.Error("expected non-nil Logger")
	}
}

func TestDeps_Location(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timezone = "America/New_York"
	if _, err := cfg.Location(); err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	withServices := NewDeps(newTestServices(t, cfg), cfg)
	if got := withServices.Location().String(); got != "America/New_York" {
		t.Errorf("Location() with services = %s", got)
	}

	configOnly := &Deps{Config: cfg}
	if got := configOnly.Location().String(); got != "America/New_York" {
		t.Errorf("Location() from config = %s", got)
	}

	broken := &Deps{Config: config.Config{Timezone: "Nowhere/Special"}}
	if broken.Location() != time.Local {
		t.Error("an unknown timezone should fall back to Local")
	}
}

func TestDeps_CurrentTime(t *testing.T) {
	fixed := time.Date(2024, 1, 17, 15, 0, 0, 0, time.UTC)
	deps := &Deps{
		Config: config.Config{Timezone: "UTC"},
		Now:    func() time.Time { return fixed },
	}

	if got := deps.CurrentTime(); !got.Equal(fixed) || got.Location() != time.UTC {
		t.Errorf("CurrentTime() = %v, want %v in UTC", got, fixed)
	}

	deps.Now = nil
	if deps.CurrentTime().IsZero() {
		t.Error("CurrentTime() without Now should use the wall clock")
	}
}

func TestDeps_ConfigServiceWithoutBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFile)
	deps := &Deps{Config: config.DefaultConfig(), ConfigPath: path, Stdout: &bytes.Buffer{}}

	svc := deps.ConfigService()
	if svc.GetPath() != path {
		t.Errorf("GetPath() = %s, want %s", svc.GetPath(), path)
	}
	if svc.Exists() {
		t.Error("config file should not exist yet")
	}
}

func TestDeps_Close(t *testing.T) {
	var nilDeps *Deps
	if err := nilDeps.Close(); err != nil {
		t.Errorf("Close() on nil deps = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	deps := NewDeps(newTestServices(t, cfg), cfg)
	if err := deps.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

type dirProvider struct{ dir string }

func (p dirProvider) UserConfigDir() (string, error) { return p.dir, nil }
func (p dirProvider) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func useAppDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	osutil.SetProvider(dirProvider{dir: dir})
	t.Cleanup(osutil.ResetProvider)
	return filepath.Join(dir, osutil.AppName)
}

func TestLoadConfig(t *testing.T) {
	appDir := useAppDir(t)
	t.Setenv("LOGBOOK_TIMEZONE", "UTC")

	deps, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if deps.Services != nil {
		t.Error("LoadConfig opened a backend")
	}
	if deps.ConfigPath != filepath.Join(appDir, config.ConfigFile) {
		t.Errorf("ConfigPath = %s", deps.ConfigPath)
	}
	if deps.Config.Timezone != "UTC" {
		t.Errorf("expected environment override, got timezone %q", deps.Config.Timezone)
	}
	if err := deps.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestLoad_MemoryBackend(t *testing.T) {
	useAppDir(t)
	t.Setenv("LOGBOOK_BACKEND", "memory")
	t.Setenv("LOGBOOK_TIMEZONE", "UTC")

	deps, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	defer func() { _ = deps.Close() }()

	if deps.Services == nil || deps.Services.Entry == nil {
		t.Fatal("expected services")
	}
	if _, ok := deps.Services.Backend().(*storage.MemoryStore); !ok {
		t.Errorf("expected a memory store, got %T", deps.Services.Backend())
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	appDir := useAppDir(t)
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(appDir, config.ConfigFile), []byte("backend = \"floppy\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(context.Background()); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}
