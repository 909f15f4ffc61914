package workflow

import (
	"context"
	"log/slog"

	"regbet/internal/artifacts"
	"regbet/internal/discovery"
	"regbet/internal/logging"
	"regbet/internal/services"
	"regbet/internal/services/brainsfit"
	"regbet/internal/services/hdbet"
)

// Controller runs the two stages for a single case against the resolved
// filesystem state. It never launches a stage whose outputs already satisfy
// the completeness check unless overwrite forces re-execution.
type Controller struct {
	registrar brainsfit.Registrar
	extractor hdbet.Extractor
	layout    artifacts.Layout
	atlas     string
	overwrite bool
	logger    *slog.Logger
}

// NewController wires the stage executors for a batch.
func NewController(registrar brainsfit.Registrar, extractor hdbet.Extractor, layout artifacts.Layout, atlas string, overwrite bool, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		registrar: registrar,
		extractor: extractor,
		layout:    layout,
		atlas:     atlas,
		overwrite: overwrite,
		logger:    logger,
	}
}

// Process executes the pipeline for one case and returns its outcome. idx
// and total are 1-based progress counters for logging only.
func (c *Controller) Process(ctx context.Context, idx, total int, item discovery.Item) CaseResult {
	ctx = services.WithCase(ctx, item.Name)
	set := artifacts.ForCase(c.layout, item.Name)
	state := artifacts.Resolve(set)

	logger := logging.WithContext(ctx, c.logger).With(
		logging.Int("index", idx),
		logging.Int("total", total),
	)

	if state.Complete() && !c.overwrite {
		logger.Info("all outputs exist, skipping case",
			logging.String(logging.FieldEventType, "case_skip"))
		return CaseResult{Item: item, Outcome: OutcomeSkipped}
	}

	logger.Info("processing case",
		logging.String(logging.FieldEventType, "case_run"),
		logging.String("source", item.SourcePath))

	if c.overwrite || !state.RegistrationComplete {
		regCtx := services.WithStage(ctx, "registration")
		err := c.registrar.Register(regCtx, brainsfit.Request{
			Atlas:           c.atlas,
			MovingVolume:    item.SourcePath,
			OutputVolume:    set.RegisteredVolume,
			OutputTransform: set.Transform,
		})
		if err == nil && !artifacts.Resolve(set).RegistrationComplete {
			err = services.Wrap(services.ErrExternalTool, "BRAINSFit", "register",
				"registration outputs are missing or empty", nil)
		}
		if err != nil {
			logger.Error("registration failed",
				logging.String(logging.FieldEventType, "case_fail"),
				logging.Error(err))
			return CaseResult{Item: item, Outcome: OutcomeRegistrationFailed, Detail: err.Error()}
		}
	} else {
		logger.Info("registered volume exists, skipping registration")
	}

	if c.overwrite || !state.ExtractionComplete {
		extCtx := services.WithStage(ctx, "extraction")
		err := c.extractor.Extract(extCtx, hdbet.Request{
			InputVolume:        set.RegisteredVolume,
			OutputVolume:       set.ExtractedVolume,
			OutputSegmentation: set.Segmentation,
			LogPath:            set.ExtractionLog,
		})
		if err == nil && !artifacts.Resolve(set).ExtractionComplete {
			err = services.Wrap(services.ErrExternalTool, "HD-BET", "extract",
				"extraction outputs are missing or empty", nil)
		}
		if err != nil {
			logger.Error("extraction failed",
				logging.String(logging.FieldEventType, "case_fail"),
				logging.Error(err))
			return CaseResult{Item: item, Outcome: OutcomeExtractionFailed, Detail: err.Error()}
		}
	} else {
		logger.Info("extraction outputs exist, skipping extraction")
	}

	final := artifacts.Resolve(set)
	logger.Info("case complete",
		logging.String(logging.FieldEventType, "case_ok"),
		logging.String("registered", set.RegisteredVolume),
		logging.String("transform", set.Transform),
		logging.String("extracted", set.ExtractedVolume),
		logging.String("segmentation", set.Segmentation),
		logging.Bool("artifacts_complete", final.Complete()))
	return CaseResult{Item: item, Outcome: OutcomeSucceeded}
}
