package logging

import (
	"context"
	"log/slog"

	"regbet/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCase is the standardized structured logging key for case (work item) names.
	FieldCase = "case"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldRunID is the standardized structured logging key for batch run identifiers.
	FieldRunID = "run_id"
	// FieldEventType is the standardized structured logging key for machine-readable event markers.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if name, ok := services.CaseFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCase, name))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}

// WithCase annotates context with the work item name (delegates to services).
func WithCase(ctx context.Context, name string) context.Context {
	return services.WithCase(ctx, name)
}

// WithStage annotates context with the pipeline stage name (delegates to services).
func WithStage(ctx context.Context, stage string) context.Context {
	return services.WithStage(ctx, stage)
}
