package testsupport

import (
	"path/filepath"
	"testing"

	"mediaforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.MediaRoot = filepath.Join(base, "media")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HTTPBind = "127.0.0.1:0"
	cfg.Paths.PublicURL = "http://127.0.0.1:0"
	cfg.Storage.AccessKey = "test"
	cfg.Storage.SecretKey = "test"
	cfg.Workers.PollInterval = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithWorkerCount overrides the worker pool size on the test config.
func WithWorkerCount(count int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workers.Count = count
	}
}

// WithErrorMessageLimit overrides the job error cap on the test config.
func WithErrorMessageLimit(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workers.ErrorMessageLimit = limit
	}
}
