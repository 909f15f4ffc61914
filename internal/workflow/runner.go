package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"regbet/internal/artifacts"
	"regbet/internal/config"
	"regbet/internal/discovery"
	"regbet/internal/logging"
	"regbet/internal/manifest"
	"regbet/internal/services"
	"regbet/internal/services/brainsfit"
	"regbet/internal/services/hdbet"
)

// ErrNoInputs reports that discovery found nothing to process. Callers map
// it to a distinct exit status from per-case failures.
var ErrNoInputs = errors.New("no input volumes found")

// Runner drives the controller over every discovered case in order and
// reduces the outcomes into one BatchResult. It holds an exclusive lock on
// the output root for the duration of the run so two batches never race on
// the same artifact tree.
type Runner struct {
	cfg       *config.Config
	registrar brainsfit.Registrar
	extractor hdbet.Extractor
	store     *manifest.Store
	logger    *slog.Logger
}

// RunnerOption configures optional runner collaborators.
type RunnerOption func(*Runner)

// WithManifest records the run and its per-case outcomes in the given store.
// Recording is best effort and never affects batch outcomes.
func WithManifest(store *manifest.Store) RunnerOption {
	return func(r *Runner) {
		r.store = store
	}
}

// WithRunnerLogger attaches a logger to the runner and its controller.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner constructs a batch runner over the given stage executors.
func NewRunner(cfg *config.Config, registrar brainsfit.Registrar, extractor hdbet.Extractor, opts ...RunnerOption) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("runner requires a config")
	}
	if registrar == nil || extractor == nil {
		return nil, errors.New("runner requires both stage executors")
	}
	runner := &Runner{
		cfg:       cfg,
		registrar: registrar,
		extractor: extractor,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// Run discovers input volumes and processes each one fully before starting
// the next. Per-case failures are recorded in the result and never abort the
// batch; the returned error is reserved for batch-level conditions such as
// an unreadable input directory or ErrNoInputs.
func (r *Runner) Run(ctx context.Context) (*BatchResult, error) {
	layout := artifacts.NewLayout(r.cfg.Paths.OutputDir)
	if err := layout.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(layout.LogDir, "regbet.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another batch is already running against this output root")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	items, err := discovery.Find(r.cfg.Paths.InputDir, discovery.Options{
		Pattern:   r.cfg.Discovery.Pattern,
		Recursive: r.cfg.Discovery.Recursive,
	})
	if err != nil {
		return nil, fmt.Errorf("discover inputs: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoInputs
	}

	logger.Info("batch starting",
		logging.Int("inputs", len(items)),
		logging.String("atlas", r.cfg.Paths.Atlas),
		logging.String("output_root", r.cfg.Paths.OutputDir),
		logging.Bool("overwrite", r.cfg.Workflow.Overwrite))

	r.beginRun(ctx, runID)

	controller := NewController(r.registrar, r.extractor, layout, r.cfg.Paths.Atlas, r.cfg.Workflow.Overwrite, r.logger)
	result := &BatchResult{RunID: runID, Cases: make([]CaseResult, 0, len(items))}

	for idx, item := range items {
		caseResult := controller.Process(ctx, idx+1, len(items), item)
		result.Cases = append(result.Cases, caseResult)
		r.recordCase(ctx, runID, caseResult)
	}

	r.finishRun(ctx, runID, result)

	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_summary"),
		logging.Int("completed", result.Completed()),
		logging.Int("total", result.Total()))
	return result, nil
}

func (r *Runner) beginRun(ctx context.Context, runID string) {
	if r.store == nil {
		return
	}
	err := r.store.BeginRun(ctx, runID,
		r.cfg.Paths.InputDir, r.cfg.Paths.Atlas, r.cfg.Paths.OutputDir,
		r.cfg.Workflow.Overwrite)
	if err != nil {
		r.logger.Warn("manifest: record run start failed", logging.Error(err))
	}
}

func (r *Runner) recordCase(ctx context.Context, runID string, res CaseResult) {
	if r.store == nil {
		return
	}
	err := r.store.RecordCase(ctx, runID, res.Item.Name, res.Item.SourcePath,
		res.Outcome.String(), res.Detail)
	if err != nil {
		r.logger.Warn("manifest: record case failed", logging.Error(err))
	}
}

func (r *Runner) finishRun(ctx context.Context, runID string, result *BatchResult) {
	if r.store == nil {
		return
	}
	if err := r.store.FinishRun(ctx, runID, result.Total(), result.Completed()); err != nil {
		r.logger.Warn("manifest: record run finish failed", logging.Error(err))
	}
}
