package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xolan/logbook/internal/config"
	"github.com/xolan/logbook/internal/logger"
	"github.com/xolan/logbook/internal/service"
)

// Deps contains all dependencies for CLI operations
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Exit   func(code int)

	// Services
	Services *service.Services

	Config     config.Config
	ConfigPath string
	Log        logger.Logger
	Now        func() time.Time
}

// Load reads the configuration, builds the diagnostic logger and opens the
// configured backend. The caller must Close the result.
func Load(ctx context.Context) (*Deps, error) {
	d, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	paths, err := service.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to determine application directory: %w", err)
	}
	services, err := service.Open(ctx, d.Config, paths, d.Log)
	if err != nil {
		return nil, err
	}
	d.Services = services
	return d, nil
}

// LoadConfig reads the configuration and builds the diagnostic logger
// without opening a backend, for commands that only touch the config file.
func LoadConfig() (*Deps, error) {
	paths, err := service.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to determine application directory: %w", err)
	}

	cfg, err := config.LoadOrDefault(paths.Config)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.PrettyLog)
	if err != nil {
		return nil, err
	}

	d := NewDeps(nil, cfg)
	d.ConfigPath = paths.Config
	d.Log = log
	return d, nil
}

// NewDeps creates a new Deps with the given services
func NewDeps(services *service.Services, cfg config.Config) *Deps {
	return &Deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		Exit:     os.Exit,
		Services: services,
		Config:   cfg,
		Log:      logger.Nop(),
		Now:      time.Now,
	}
}

// Location returns the location times are read and shown in.
func (d *Deps) Location() *time.Location {
	if d.Services != nil && d.Services.Entry != nil {
		return d.Services.Entry.Location()
	}
	if loc, err := d.Config.Location(); err == nil {
		return loc
	}
	return time.Local
}

// Logger returns Log, or a no-op logger when none is set.
func (d *Deps) Logger() logger.Logger {
	if d.Log == nil {
		return logger.Nop()
	}
	return d.Log
}

// CurrentTime returns Now in Location.
func (d *Deps) CurrentTime() time.Time {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return now().In(d.Location())
}

// ConfigService returns the configuration service, also when no backend
// was opened.
func (d *Deps) ConfigService() *service.ConfigService {
	if d.Services != nil && d.Services.Config != nil {
		return d.Services.Config
	}
	return service.NewConfigService(d.ConfigPath, d.Config)
}

// Close releases the services and flushes the logger.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	err := d.Services.Close()
	if d.Log != nil {
		_ = d.Log.Sync()
	}
	return err
}
