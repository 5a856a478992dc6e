package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/logbook/internal/config"
)

func TestConfigService_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.ConfigFile)
	svc := NewConfigService(path, config.DefaultConfig())

	if svc.Exists() {
		t.Fatal("config should not exist yet")
	}
	if err := svc.Init(); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}
	if !svc.Exists() {
		t.Fatal("config should exist after Init")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if string(data) != config.GenerateSampleConfig() {
		t.Error("Init() should write the sample config")
	}

	err = svc.Init()
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second Init() error = %v, expected already exists", err)
	}
}

func TestConfigService_UpdateAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFile)
	svc := NewConfigService(path, config.DefaultConfig())

	cfg := config.DefaultConfig()
	cfg.Backend = "SQLite"
	cfg.WeekStartDay = "sunday"
	cfg.Timezone = "UTC"
	cfg.Redis.ConnectTimeout = 3 * time.Second

	if err := svc.Update(cfg); err != nil {
		t.Fatalf("Update() returned error: %v", err)
	}
	if svc.Get().Backend != config.BackendSQLite {
		t.Errorf("Get().Backend = %q, expected normalised sqlite", svc.Get().Backend)
	}

	reloaded := NewConfigService(path, config.DefaultConfig())
	if err := reloaded.Reload(); err != nil {
		t.Fatalf("Reload() returned error: %v", err)
	}
	got := reloaded.Get()
	if got.Backend != config.BackendSQLite || got.WeekStartDay != "sunday" || got.Timezone != "UTC" {
		t.Errorf("reloaded config = %+v", got)
	}
	if got.Redis.ConnectTimeout != 3*time.Second {
		t.Errorf("reloaded connect_timeout = %v, expected 3s", got.Redis.ConnectTimeout)
	}
	if reloaded.GetPath() != path {
		t.Errorf("GetPath() = %q, expected %q", reloaded.GetPath(), path)
	}
}

func TestConfigService_Update_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFile)
	svc := NewConfigService(path, config.DefaultConfig())

	cfg := config.DefaultConfig()
	cfg.WeekStartDay = "friday"
	if err := svc.Update(cfg); err == nil {
		t.Fatal("expected validation error")
	}
	if svc.Exists() {
		t.Error("invalid config should not be written")
	}
}

func TestConfigService_SetTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFile)
	if err := os.WriteFile(path, []byte("backend = \"sqlite\"\nweek_start_day = \"sunday\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Effective config carries an environment override the file does not.
	effective := config.DefaultConfig()
	effective.Backend = config.BackendMemory
	effective.WeekStartDay = "sunday"
	svc := NewConfigService(path, effective)

	if err := svc.SetTheme("Nord"); err != nil {
		t.Fatalf("SetTheme() returned error: %v", err)
	}
	if svc.Get().Theme != "nord" {
		t.Errorf("Get().Theme = %q, expected nord", svc.Get().Theme)
	}
	if svc.Get().Backend != config.BackendMemory {
		t.Errorf("SetTheme() changed the effective backend to %q", svc.Get().Backend)
	}

	onDisk, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if onDisk.Theme != "nord" {
		t.Errorf("file theme = %q, expected nord", onDisk.Theme)
	}
	if onDisk.Backend != config.BackendSQLite || onDisk.WeekStartDay != "sunday" {
		t.Errorf("file settings were not preserved: %+v", onDisk)
	}
}

func TestConfigService_SetTheme_NoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFile)
	svc := NewConfigService(path, config.DefaultConfig())

	if err := svc.SetTheme("nord"); !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("SetTheme() error = %v, expected ErrNoConfigFile", err)
	}
	if svc.Exists() {
		t.Error("SetTheme() must not create a config file")
	}
}
