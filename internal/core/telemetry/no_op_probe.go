package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"taskapp/internal/core/port"
)

// NoOpProbe is used in tests and when telemetry is disabled.
type NoOpProbe struct{}

func NewNoOpProbe() port.Telemetry {
	return &NoOpProbe{}
}

func (p *NoOpProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

func (p *NoOpProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{}) {
}

func (p *NoOpProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
}

// TelemetryOperation measures one repository call from StartOperation to End.
type TelemetryOperation struct {
	probe     port.Telemetry
	ctx       context.Context
	span      trace.Span
	startTime time.Time
	operation string
	entity    string
}

// StartOperation opens a repository span and starts the clock. The returned context carries the span.
func StartOperation(ctx context.Context, probe port.Telemetry, operation, entity string, attrs ...attribute.KeyValue) (context.Context, *TelemetryOperation) {
	if probe == nil {
		probe = NewNoOpProbe()
	}

	ctx, span := probe.StartRepositorySpan(ctx, operation, entity, attrs)

	return ctx, &TelemetryOperation{
		probe:     probe,
		ctx:       ctx,
		span:      span,
		startTime: time.Now(),
		operation: operation,
		entity:    entity,
	}
}

// End records the outcome and closes the span. It returns err so callers can write `return op.End(err)`.
func (op *TelemetryOperation) End(err error) error {
	op.probe.RecordRepositoryOperation(op.ctx, op.operation, op.entity, time.Since(op.startTime), err)
	op.span.End()

	return err
}
