package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/xolan/logbook/internal/config"
)

// ErrNoConfigFile is returned by SetTheme when there is no file to update.
var ErrNoConfigFile = errors.New("no config file")

// ConfigService holds the effective configuration and edits the file
// behind it. Safe for concurrent use; the TUI saves from a tea.Cmd.
type ConfigService struct {
	mu     sync.Mutex
	path   string
	config config.Config
}

// NewConfigService wraps the configuration loaded from path.
func NewConfigService(path string, cfg config.Config) *ConfigService {
	return &ConfigService{path: path, config: cfg}
}

// Get returns the effective configuration, environment overrides included.
func (s *ConfigService) Get() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// GetPath returns the config file path.
func (s *ConfigService) GetPath() string {
	return s.path
}

// Exists reports whether the config file exists.
func (s *ConfigService) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Init writes the commented sample config. An existing file is left alone.
func (s *ConfigService) Init() error {
	if s.Exists() {
		return fmt.Errorf("config file already exists at %s", s.path)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(config.GenerateSampleConfig()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Update validates cfg, writes all of it to the config file and makes it
// the effective configuration.
func (s *ConfigService) Update(cfg config.Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	s.config = cfg
	return nil
}

// SetTheme records the TUI theme in the existing config file. The other
// settings are rewritten as the file has them, so LOGBOOK_* overrides in
// effect for this run do not leak into the file.
func (s *ConfigService) SetTheme(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	onDisk := config.DefaultConfig()
	if _, err := toml.DecodeFile(s.path, &onDisk); err != nil {
		if os.IsNotExist(err) {
			return ErrNoConfigFile
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	onDisk.Theme = name
	onDisk.Normalize()
	if err := onDisk.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := s.write(onDisk); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	s.config.Theme = onDisk.Theme
	return nil
}

// Reload rereads the config file and the environment.
func (s *ConfigService) Reload() error {
	cfg, err := config.LoadOrDefault(s.path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}

// write encodes cfg as TOML through a temporary file. Callers hold mu.
func (s *ConfigService) write(cfg config.Config) error {
	var buf bytes.Buffer
	buf.WriteString("# logbook configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
