package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation outcomes.
const (
	OutcomeMatched = "matched"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Operation tracks one traced and timed bootstrap step.
type Operation struct {
	Name      string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

// StartOperation starts a span named spanName for the step name. If metrics
// is nil, metric recording is skipped.
func StartOperation(ctx context.Context, spanName, name string, metrics *Metrics) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, spanName, trace.WithAttributes(
		attribute.String(AttrAutoConfiguration, name),
	))
	return ctx, &Operation{
		Name:      name,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
}

// SetAttributes adds attributes to the operation's span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}

// End ends the span and records the outcome.
func (o *Operation) End(ctx context.Context, outcome string, err error) {
	duration := time.Since(o.StartTime)

	if err != nil {
		o.span.RecordError(err)
		o.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	o.span.SetAttributes(
		attribute.String(AttrStatus, outcome),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	o.span.End()

	o.Metrics.RecordAutoConfiguration(ctx, o.Name, outcome, duration)
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.StartTime)
}
