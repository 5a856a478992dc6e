package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xolan/logbook/internal/config"
	"github.com/xolan/logbook/internal/controller"
	"github.com/xolan/logbook/internal/logger"
	"github.com/xolan/logbook/internal/storage"
	badgerstore "github.com/xolan/logbook/internal/storage/badger"
	redisstore "github.com/xolan/logbook/internal/storage/redis"
	sqlitestore "github.com/xolan/logbook/internal/storage/sqlite"
	"github.com/xolan/logbook/internal/timer"
)

// Services holds all service instances used by the application
type Services struct {
	Entry  *EntryService
	Timer  *TimerService
	Report *ReportService
	Config *ConfigService

	Controller *controller.MutatingController
	backend    storage.Backend
	log        logger.Logger
}

// Paths locates the files the services keep outside the backend.
type Paths struct {
	Timer  string
	Config string
}

// DefaultPaths returns the per-user timer and config file locations.
func DefaultPaths() (Paths, error) {
	timerPath, err := timer.GetTimerPath()
	if err != nil {
		return Paths{}, err
	}
	configPath, err := config.GetConfigPath()
	if err != nil {
		return Paths{}, err
	}
	return Paths{Timer: timerPath, Config: configPath}, nil
}

// Open opens the backend selected by cfg and builds the services on top of it.
// The caller must Close the result.
func Open(ctx context.Context, cfg config.Config, paths Paths, log logger.Logger) (*Services, error) {
	if log == nil {
		log = logger.Nop()
	}
	backend, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return NewServicesWithBackend(backend, paths, cfg, log)
}

// OpenBackend opens the storage backend named by cfg.Backend.
func OpenBackend(ctx context.Context, cfg config.Config, log logger.Logger) (storage.Backend, error) {
	if log == nil {
		log = logger.Nop()
	}
	log.Debug("opening backend", logger.String("backend", cfg.Backend))

	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil

	case config.BackendJSONL, "":
		dir, err := cfg.ResolveDataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		fs, err := storage.NewFileStore(dir, log)
		if err != nil {
			return nil, err
		}
		return fs, nil

	case config.BackendSQLite:
		path, err := cfg.SQLitePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sqlite path: %w", err)
		}
		db, err := sqlitestore.Open(path)
		if err != nil {
			return nil, err
		}
		return db, nil

	case config.BackendBadger:
		path, err := cfg.BadgerPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve badger path: %w", err)
		}
		bc := badgerstore.DefaultConfig(path)
		bc.SyncWrites = cfg.Badger.SyncWrites
		bc.Logger = log
		db, err := badgerstore.Open(bc)
		if err != nil {
			return nil, err
		}
		return db, nil

	case config.BackendRedis:
		opts := redisstore.DefaultConnectOptions(cfg.Redis.Addr)
		opts.User = cfg.Redis.Username
		opts.Password = cfg.Redis.Password
		opts.DB = cfg.Redis.DB
		if cfg.Redis.ConnectTimeout > 0 {
			opts.ConnectTimeout = cfg.Redis.ConnectTimeout
		}
		client, err := redisstore.Connect(ctx, opts, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewOwned(client, cfg.Redis.KeyPrefix), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Option customises NewServicesWithBackend.
type Option func(*serviceOptions)

type serviceOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) {
		o.now = now
	}
}

// NewServicesWithBackend builds the services over an open backend (useful for testing).
// The returned Services owns backend.
func NewServicesWithBackend(backend storage.Backend, paths Paths, cfg config.Config, log logger.Logger, opts ...Option) (*Services, error) {
	if log == nil {
		log = logger.Nop()
	}
	o := serviceOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err), backend.Close())
	}

	ctrl := controller.NewMutating(backend, controller.WithLogger(log))
	clock := func() time.Time { return o.now().In(loc) }

	entryService := NewEntryService(ctrl, backend, cfg, clock)
	return &Services{
		Entry:      entryService,
		Timer:      NewTimerService(paths.Timer, ctrl, clock),
		Report:     NewReportService(ctrl, cfg, clock),
		Config:     NewConfigService(paths.Config, cfg),
		Controller: ctrl,
		backend:    backend,
		log:        log,
	}, nil
}

// Backend returns the open storage backend.
func (s *Services) Backend() storage.Backend {
	return s.backend
}

// Close closes the backend.
func (s *Services) Close() error {
	if s == nil || s.backend == nil {
		return nil
	}
	if err := s.backend.Close(); err != nil {
		s.log.Warn("closing backend failed", logger.Error(err))
		return err
	}
	return nil
}
