package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/testsupport"
	"mediaforge/internal/worker"
)

// settlingRunner claims the job and marks it successful, mimicking the
// executor's terminal-state guarantee.
type settlingRunner struct {
	store *jobs.Store

	mu   sync.Mutex
	runs []string
}

func (r *settlingRunner) Run(ctx context.Context, jobID string) error {
	claimed, err := r.store.Claim(ctx, jobID, 5)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}
	r.mu.Lock()
	r.runs = append(r.runs, jobID)
	r.mu.Unlock()
	return r.store.Apply(ctx, jobID, jobs.Update{
		Status:   jobs.StatusOf(jobs.StatusSuccess),
		Progress: jobs.ProgressOf(100),
	})
}

func (r *settlingRunner) ranJobs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.runs...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestPoolDrainsBacklog(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkerCount(2))
	store := testsupport.MustOpenStore(t, cfg)
	runner := &settlingRunner{store: store}

	ids := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		job := testsupport.NewJob(t, store, "uploads/photo.png", nil)
		ids[job.ID] = struct{}{}
	}

	pool := worker.NewPool(cfg, store, runner, logging.NewNop())
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer pool.Stop()

	waitFor(t, 5*time.Second, func() bool {
		summary, err := store.Health(context.Background())
		if err != nil {
			return false
		}
		return summary.Pending == 0 && summary.Started == 0
	})

	for _, id := range runner.ranJobs() {
		if _, ok := ids[id]; !ok {
			t.Fatalf("pool ran unknown job %s", id)
		}
	}
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[jobs.StatusSuccess] != 5 {
		t.Fatalf("expected 5 successful jobs, got %v", stats)
	}
}

func TestPoolNotifyWakesIdleWorkers(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkerCount(1))
	// Long poll interval so only Notify can wake the worker in test time.
	cfg.Workers.PollInterval = 3600
	store := testsupport.MustOpenStore(t, cfg)
	runner := &settlingRunner{store: store}

	pool := worker.NewPool(cfg, store, runner, logging.NewNop())
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer pool.Stop()

	// Give the worker time to finish its initial empty poll and go idle.
	time.Sleep(100 * time.Millisecond)

	job := testsupport.NewJob(t, store, "uploads/photo.png", nil)
	pool.Notify()

	waitFor(t, 5*time.Second, func() bool {
		got, err := store.GetByID(context.Background(), job.ID)
		return err == nil && got != nil && got.Status == jobs.StatusSuccess
	})
}

func TestPoolStartTwiceFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner := &settlingRunner{store: store}

	pool := worker.NewPool(cfg, store, runner, logging.NewNop())
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer pool.Stop()

	if err := pool.Start(context.Background()); err == nil {
		t.Fatal("expected second Start to fail")
	}
}

func TestPoolStopWithoutStart(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	pool := worker.NewPool(cfg, store, &settlingRunner{store: store}, logging.NewNop())
	pool.Stop()
}
