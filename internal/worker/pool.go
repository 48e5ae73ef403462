package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"mediaforge/internal/config"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
)

// Runner executes one job to a terminal state. Satisfied by
// pipeline.Executor.
type Runner interface {
	Run(ctx context.Context, jobID string) error
}

// Pool polls the store for pending jobs and fans them out across a fixed set
// of workers. Each worker processes at most one job at a time; the claim
// inside the runner keeps two workers off the same job.
type Pool struct {
	store      *jobs.Store
	runner     Runner
	logger     *slog.Logger
	workers    int
	interval   time.Duration
	jobTimeout time.Duration

	notify chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	group   *errgroup.Group
	started bool
}

// NewPool builds a pool from the worker configuration.
func NewPool(cfg *config.Config, store *jobs.Store, runner Runner, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := cfg.Workers.Count
	if workers < 1 {
		workers = 1
	}
	interval := time.Duration(cfg.Workers.PollInterval) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	return &Pool{
		store:      store,
		runner:     runner,
		logger:     logging.NewComponentLogger(logger, "worker"),
		workers:    workers,
		interval:   interval,
		jobTimeout: time.Duration(cfg.Workers.JobTimeout) * time.Second,
		notify:     make(chan struct{}, 1),
	}
}

// Start launches the worker goroutines. It returns immediately; workers run
// until the context is cancelled or Stop is called.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return errors.New("worker pool already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, runCtx := errgroup.WithContext(runCtx)
	p.cancel = cancel
	p.group = group
	p.started = true

	for i := 0; i < p.workers; i++ {
		worker := i
		group.Go(func() error {
			p.loop(runCtx, worker)
			return nil
		})
	}
	p.logger.Info("worker pool started", slog.Int("workers", p.workers))
	return nil
}

// Stop cancels the workers and waits for in-flight jobs to settle.
func (p *Pool) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	group := p.group
	p.started = false
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if group != nil {
		_ = group.Wait()
	}
	p.logger.Info("worker pool stopped")
}

// Notify nudges an idle worker to poll immediately instead of waiting out the
// current tick. Safe to call from any goroutine; extra nudges coalesce.
func (p *Pool) Notify() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

func (p *Pool) loop(ctx context.Context, worker int) {
	log := p.logger.With(slog.Int("worker", worker))
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		worked, err := p.runNext(ctx, log)
		if err != nil && ctx.Err() == nil {
			log.Error("job execution errored", logging.Error(err))
		}
		if worked {
			// Drain the backlog before going back to sleep.
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-p.notify:
		case <-ticker.C:
		}
	}
}

// runNext claims and runs at most one pending job. It reports whether a job
// was attempted so the caller can keep draining.
func (p *Pool) runNext(ctx context.Context, log *slog.Logger) (bool, error) {
	job, err := p.store.NextPending(ctx)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	runCtx := ctx
	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}
	log.Debug("dispatching job", slog.String(logging.FieldJobID, job.ID))
	return true, p.runner.Run(runCtx, job.ID)
}
