package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"mediaforge/internal/api"
	"mediaforge/internal/config"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/pipeline"
	"mediaforge/internal/steps"
	"mediaforge/internal/storage"
	"mediaforge/internal/worker"
)

// Daemon coordinates the background services and enforces single-instance
// execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *jobs.Store
	pool   *worker.Pool
	server *api.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Jobs         jobs.HealthSummary
	JobDBPath    string
	LockFilePath string
	APIAddress   string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *jobs.Store, objects storage.ObjectStore, registry *steps.Registry, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || registry == nil {
		return nil, errors.New("daemon requires config, store, and step registry")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	executor := pipeline.NewDefaultExecutor(cfg, store, objects, registry, logger)
	pool := worker.NewPool(cfg, store, executor, logger)
	server := api.NewServer(cfg, store, objects, pool.Notify, logger)

	lockPath := filepath.Join(cfg.Paths.LogDir, "mediaforged.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		pool:     pool,
		server:   server,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the worker pool and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mediaforge daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.pool.Start(runCtx); err != nil {
		d.teardown()
		return fmt.Errorf("start worker pool: %w", err)
	}
	if err := d.server.Start(runCtx); err != nil {
		d.pool.Stop()
		d.teardown()
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("mediaforge daemon started",
		slog.String("lock", d.lockPath),
		slog.String("api", d.server.Addr()))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
	}
	d.server.Stop()
	d.pool.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.cancel = nil
	d.running.Store(false)
	d.logger.Info("mediaforge daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	summary, err := d.store.Health(ctx)
	if err != nil {
		d.logger.Warn("job health query failed", logging.Error(err))
	}
	return Status{
		Running:      d.running.Load(),
		Jobs:         summary,
		JobDBPath:    d.store.Path(),
		LockFilePath: d.lockPath,
		APIAddress:   d.server.Addr(),
	}
}

func (d *Daemon) teardown() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
