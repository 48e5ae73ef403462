package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"mediaforge/internal/config"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/media"
	"mediaforge/internal/services"
	"mediaforge/internal/source"
	"mediaforge/internal/steps"
	"mediaforge/internal/storage"
)

// unsupportedMessage is the terminal error recorded for inputs with no
// applicable default pipeline.
const unsupportedMessage = "unsupported file type; no pipeline."

// Executor runs one claimed job end to end: resolve the input, walk the
// pipeline, and settle the job into success or failure. Every exit path
// leaves the job terminal and removes temporary inputs.
type Executor struct {
	store    *jobs.Store
	resolver *source.Resolver
	registry *steps.Registry
	logger   *slog.Logger
	errLimit int
}

// NewExecutor wires the executor against the job store, input resolver, and
// step registry.
func NewExecutor(cfg *config.Config, store *jobs.Store, resolver *source.Resolver, registry *steps.Registry, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		store:    store,
		resolver: resolver,
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		errLimit: cfg.Workers.ErrorMessageLimit,
	}
}

// NewDefaultExecutor builds an executor with the full step library attached.
func NewDefaultExecutor(cfg *config.Config, store *jobs.Store, objects storage.ObjectStore, registry *steps.Registry, logger *slog.Logger) *Executor {
	resolver := source.NewResolver(cfg.Paths.MediaRoot, objects)
	return NewExecutor(cfg, store, resolver, registry, logger)
}

// Run executes the job with the given id. Job-level failures are recorded on
// the job record and do not surface as errors; the returned error reports
// infrastructure faults only (store unreachable, claim race lost to a crash).
func (e *Executor) Run(ctx context.Context, jobID string) error {
	ctx = services.WithJobID(ctx, jobID)
	log := logging.WithContext(ctx, e.logger)

	claimed, err := e.store.Claim(ctx, jobID, ProgressSetup)
	if err != nil {
		return fmt.Errorf("claim job %s: %w", jobID, err)
	}
	if !claimed {
		log.Debug("job not claimable", slog.String(logging.FieldEventType, "claim_skipped"))
		return nil
	}

	job, err := e.store.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job %s: %w", jobID, err)
	}
	if job == nil {
		return fmt.Errorf("job %s missing after claim", jobID)
	}
	log.Info("job started",
		slog.String(logging.FieldEventType, "job_start"),
		slog.String("input_ref", job.InputRef),
		slog.Int("pipeline_len", len(job.Pipeline)))

	localInput, temporary, err := e.resolver.Resolve(ctx, job.InputRef)
	if err != nil {
		return e.fail(ctx, log, job.ID, err.Error(), err)
	}
	defer source.Cleanup(localInput, temporary)

	kind := media.Classify(job.InputRef)
	baseName := media.BaseName(job.InputRef)

	plan := job.Pipeline
	if len(plan) == 0 {
		plan = media.DefaultPipeline(kind)
	}
	if len(plan) == 0 {
		wrapped := services.Wrap(services.ErrUnsupportedKind, "", "plan", unsupportedMessage, nil)
		return e.fail(ctx, log, job.ID, unsupportedMessage, wrapped)
	}

	total := len(plan)
	outputs := make([]jobs.OutputDescriptor, 0, total)
	for idx, stepName := range plan {
		stepCtx := services.WithStep(ctx, stepName)
		stepLog := logging.WithContext(stepCtx, e.logger)

		if err := e.publishProgress(ctx, job.ID, ProgressFor(idx, total)); err != nil {
			return err
		}

		handler, ok := e.registry.Lookup(stepName)
		if !ok {
			wrapped := services.Wrap(services.ErrUnknownStep, stepName, "lookup", "no handler registered", nil)
			return e.fail(stepCtx, stepLog, job.ID, wrapped.Error(), wrapped)
		}
		if !handler.Applicable(kind) {
			stepLog.Info("step skipped",
				slog.String(logging.FieldEventType, "step_skipped"),
				slog.String("kind", string(kind)))
		} else {
			desc, err := handler.Run(stepCtx, localInput, baseName)
			if err != nil {
				return e.fail(stepCtx, stepLog, job.ID, err.Error(), err)
			}
			outputs = append(outputs, desc)
			stepLog.Info("step complete",
				slog.String(logging.FieldEventType, "step_complete"),
				slog.String("output_type", desc.Type),
				slog.String("output_key", desc.Key))
		}

		if err := e.publishProgress(ctx, job.ID, ProgressFor(idx+1, total)); err != nil {
			return err
		}
	}

	update := jobs.Update{
		Status:        jobs.StatusOf(jobs.StatusSuccess),
		Progress:      jobs.ProgressOf(ProgressDone),
		AppendOutputs: outputs,
	}
	if err := e.store.Apply(ctx, job.ID, update); err != nil {
		return fmt.Errorf("finalize job %s: %w", job.ID, err)
	}
	log.Info("job complete",
		slog.String(logging.FieldEventType, "job_complete"),
		slog.Int("outputs", len(outputs)))
	return nil
}

func (e *Executor) publishProgress(ctx context.Context, id string, progress int) error {
	update := jobs.Update{Progress: jobs.ProgressOf(progress)}
	if err := e.store.Apply(ctx, id, update); err != nil {
		return fmt.Errorf("publish progress for job %s: %w", id, err)
	}
	return nil
}

// fail settles the job into a terminal failure. Outputs produced during the
// failed run are deliberately not appended.
func (e *Executor) fail(ctx context.Context, log *slog.Logger, id, message string, cause error) error {
	truncated := services.Truncate(message, e.errLimit)
	update := jobs.Update{
		Status:   jobs.StatusOf(jobs.StatusFailure),
		Progress: jobs.ProgressOf(ProgressDone),
		Error:    jobs.ErrorOf(truncated),
	}
	if err := e.store.Apply(ctx, id, update); err != nil {
		return fmt.Errorf("record failure for job %s: %w", id, err)
	}
	log.Error("job failed",
		slog.String(logging.FieldEventType, "job_failed"),
		logging.Error(cause))
	return nil
}
