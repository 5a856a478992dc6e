package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/xolan/logbook/internal/osutil"
)

const (
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
)

// Backend names accepted in the backend field.
const (
	BackendMemory = "memory"
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Config represents the application configuration
type Config struct {
	// Backend selects the entry store
	Backend string `toml:"backend" env:"LOGBOOK_BACKEND" validate:"oneof=memory jsonl sqlite badger redis"`
	// WeekStartDay defines which day starts the week (monday or sunday)
	WeekStartDay string `toml:"week_start_day" env:"LOGBOOK_WEEK_START_DAY"`
	// Timezone is used to read and display times (IANA name or "Local"). Storage is always UTC.
	Timezone string `toml:"timezone" env:"LOGBOOK_TIMEZONE"`
	// LogLevel is the minimum level of diagnostic logging on stderr
	LogLevel string `toml:"log_level" env:"LOGBOOK_LOG_LEVEL" validate:"oneof=debug info warn error"`
	// PrettyLog switches diagnostic logging from JSON to console output
	PrettyLog bool `toml:"pretty_log" env:"LOGBOOK_PRETTY_LOG"`
	// Theme names the TUI color theme (a bubbletint id); empty selects the default
	Theme string `toml:"theme" env:"LOGBOOK_THEME"`
	// DataDir holds the jsonl files and the default sqlite and badger locations
	DataDir string `toml:"data_dir" env:"LOGBOOK_DATA_DIR"`

	SQLite SQLiteConfig `toml:"sqlite"`
	Badger BadgerConfig `toml:"badger"`
	Redis  RedisConfig  `toml:"redis"`
	Server ServerConfig `toml:"server"`
}

// SQLiteConfig configures the sqlite backend.
type SQLiteConfig struct {
	Path string `toml:"path" env:"LOGBOOK_SQLITE_PATH"`
}

// BadgerConfig configures the badger backend.
type BadgerConfig struct {
	Path       string `toml:"path" env:"LOGBOOK_BADGER_PATH"`
	SyncWrites bool   `toml:"sync_writes" env:"LOGBOOK_BADGER_SYNC_WRITES"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr           string        `toml:"addr" env:"LOGBOOK_REDIS_ADDR" validate:"omitempty,hostname_port"`
	Username       string        `toml:"username" env:"LOGBOOK_REDIS_USERNAME"`
	Password       string        `toml:"password" env:"LOGBOOK_REDIS_PASSWORD"`
	DB             int           `toml:"db" env:"LOGBOOK_REDIS_DB" validate:"min=0,max=15"`
	KeyPrefix      string        `toml:"key_prefix" env:"LOGBOOK_REDIS_KEY_PREFIX"`
	ConnectTimeout time.Duration `toml:"connect_timeout" env:"LOGBOOK_REDIS_CONNECT_TIMEOUT" validate:"min=0"`
}

// ServerConfig configures `logbook serve`.
type ServerConfig struct {
	Listen          string        `toml:"listen" env:"LOGBOOK_SERVER_LISTEN" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"LOGBOOK_SERVER_SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// DefaultConfig returns a Config with sensible defaults.
// - backend: "jsonl" (plain files in the data directory)
// - week_start_day: "monday" (ISO 8601 standard)
// - timezone: "Local" (use system local timezone)
// - log_level: "warn" (diagnostics stay quiet in the CLI)
func DefaultConfig() Config {
	return Config{
		Backend:      BackendJSONL,
		WeekStartDay: "monday",
		Timezone:     "Local",
		LogLevel:     "warn",
		Badger: BadgerConfig{
			SyncWrites: true,
		},
		Redis: RedisConfig{
			Addr:           "localhost:6379",
			KeyPrefix:      "logbook:",
			ConnectTimeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Listen:          "127.0.0.1:8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// GetConfigPath returns the path to the config file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	appDir, err := appDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, ConfigFile), nil
}

func appDir() (string, error) {
	return osutil.AppDir()
}

// Load reads the config file at path, applies LOGBOOK_* environment
// overrides and validates the result. Fields missing from the file keep
// their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadOrDefault is Load, except that a missing file yields the defaults
// (still subject to environment overrides).
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return finish(DefaultConfig())
		}
		return Config{}, err
	}
	return Load(path)
}

func finish(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment overrides: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize lower-cases enumerated fields and trims whitespace.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.WeekStartDay = strings.ToLower(strings.TrimSpace(c.WeekStartDay))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Timezone = strings.TrimSpace(c.Timezone)
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration. Call Normalize first.
func (c *Config) Validate() error {
	if c.WeekStartDay != "monday" && c.WeekStartDay != "sunday" {
		return fmt.Errorf("invalid week_start_day %q: must be 'monday' or 'sunday'", c.WeekStartDay)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("invalid redis.addr: required when backend is %q", BackendRedis)
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			return fmt.Errorf("invalid %s %q: failed %q check", field, fmt.Sprint(fe.Value()), fe.Tag())
		}
		return err
	}
	return nil
}

// Location resolves Timezone. An empty value means Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// WeekStart returns the configured first day of the week.
func (c Config) WeekStart() time.Weekday {
	if c.WeekStartDay == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// ResolveDataDir returns DataDir, or the per-user application directory
// when DataDir is empty. The directory is created if needed.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir == "" {
		return appDir()
	}
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return "", err
	}
	return c.DataDir, nil
}

// SQLitePath returns the sqlite database path, defaulting to logbook.db in
// the data directory.
func (c Config) SQLitePath() (string, error) {
	if c.SQLite.Path != "" {
		return c.SQLite.Path, nil
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logbook.db"), nil
}

// BadgerPath returns the badger directory, defaulting to badger/ in the
// data directory.
func (c Config) BadgerPath() (string, error) {
	if c.Badger.Path != "" {
		return c.Badger.Path, nil
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "badger"), nil
}

// GenerateSampleConfig returns a commented TOML file documenting every
// option with its default.
func GenerateSampleConfig() string {
	return `# logbook configuration file
# Every option is commented out and shows its default.

# Entry store: "memory", "jsonl", "sqlite", "badger" or "redis"
# backend = "jsonl"

# Week start day: "monday" or "sunday"
# week_start_day = "monday"

# Timezone used to read and display times: IANA name (e.g. "America/New_York") or "Local"
# Entries are always stored in UTC.
# timezone = "Local"

# Diagnostic logging on stderr: "debug", "info", "warn" or "error"
# log_level = "warn"
# pretty_log = false

# Color theme of 'logbook tui', e.g. "dracula" or "nord"
# theme = "dracula"

# Directory for entries.jsonl, mutations.jsonl and the default database files
# data_dir = ""

[sqlite]
# path = ""

[badger]
# path = ""
# sync_writes = true

[redis]
# addr = "localhost:6379"
# username = ""
# password = ""
# db = 0
# key_prefix = "logbook:"
# connect_timeout = "10s"

[server]
# listen = "127.0.0.1:8080"
# shutdown_timeout = "10s"
`
}
