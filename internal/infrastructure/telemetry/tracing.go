package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of sync run spans
const TracerName = "storesync"

// Span attribute keys used by the sync engine
const (
	SpanAttrSyncDomain = "sync.domain"
	SpanAttrRunID      = "sync.run_id"
	SpanAttrStartPage  = "sync.start_page"
	SpanAttrProcessed  = "sync.processed"
	SpanAttrFailed     = "sync.failed"
	SpanAttrSkipped    = "sync.skipped"
)

// RunSpan traces one sync run of a domain
type RunSpan struct {
	span trace.Span
}

// StartRunSpan starts the "sync.run" span. Finish must be called exactly once.
func StartRunSpan(ctx context.Context, domain, runID string) (context.Context, *RunSpan) {
	ctx, span := otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "sync.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(SpanAttrSyncDomain, domain),
			attribute.String(SpanAttrRunID, runID),
		),
	)
	return ctx, &RunSpan{span: span}
}

// SetStartPage records the page the run resumed at
func (s *RunSpan) SetStartPage(page int) {
	s.span.SetAttributes(attribute.Int(SpanAttrStartPage, page))
}

// RunOutcome summarizes a run for its span
type RunOutcome struct {
	Processed int
	Failed    int
	Success   bool
	Skipped   bool
	Error     string
}

// Finish records the outcome and ends the span. Skipped runs are neither
// OK nor errors.
func (s *RunSpan) Finish(o RunOutcome) {
	s.span.SetAttributes(
		attribute.Int(SpanAttrProcessed, o.Processed),
		attribute.Int(SpanAttrFailed, o.Failed),
	)
	switch {
	case o.Success:
		s.span.SetStatus(codes.Ok, "")
	case o.Skipped:
		s.span.SetAttributes(attribute.Bool(SpanAttrSkipped, true))
	default:
		s.span.RecordError(errors.New(o.Error))
		s.span.SetStatus(codes.Error, o.Error)
	}
	s.span.End()
}
