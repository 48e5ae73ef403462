// Package daemonrun bootstraps the full daemon from a configuration file.
// It is shared by the mediaforged binary and the CLI's serve command.
package daemonrun

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"mediaforge/internal/config"
	"mediaforge/internal/daemon"
	"mediaforge/internal/deps"
	"mediaforge/internal/ffmpeg"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/steps"
	"mediaforge/internal/storage"
)

// Run loads configuration, wires the daemon, and blocks until the context is
// cancelled. configPath may be empty to use the default search path.
func Run(ctx context.Context, configPath string) error {
	cfg, path, existed, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if existed {
		logger.Info("configuration loaded", slog.String("path", path))
	} else {
		logger.Warn("no configuration file found, using defaults", slog.String("search_path", path))
	}

	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	for _, status := range statuses {
		if !status.Available {
			logger.Warn("dependency unavailable",
				slog.String("name", status.Name),
				slog.Bool("optional", status.Optional),
				slog.String("detail", status.Detail))
		}
	}
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
	}

	store, err := jobs.Open(cfg)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}

	objects, err := storage.New(cfg)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		// Storage may come up after the daemon; jobs needing it fail
		// individually until it does.
		logger.Warn("object storage unavailable at startup", logging.Error(err))
	}

	client, err := ffmpeg.New(cfg.FFmpegBinary())
	if err != nil {
		return fmt.Errorf("init ffmpeg client: %w", err)
	}
	registry := steps.NewDefaultRegistry(cfg, objects, client)

	d, err := daemon.New(cfg, store, objects, registry, logger)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer func() {
		if closeErr := d.Close(); closeErr != nil {
			logger.Warn("daemon close", logging.Error(closeErr))
		}
	}()

	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}
