package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"taskapp/internal/core/port"
	"taskapp/pkg/logger"
)

const tracerName = "taskapp"

// OTELProbe implements port.Telemetry with the global OpenTelemetry tracer and AppMetrics counters.
type OTELProbe struct {
	logger  *logger.Logger
	metrics *AppMetrics
}

func NewOTELProbe(log *logger.Logger, metrics *AppMetrics) port.Telemetry {
	return &OTELProbe{logger: log, metrics: metrics}
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := append([]attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}, attrs...)

	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("has_error", err != nil),
	)

	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(ctx, operation, entity, err)
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)

		p.logger.ErrorWithTrace(ctx, "Repository operation failed",
			zap.String("operation", operation),
			zap.String("entity", entity),
			zap.Duration("duration", duration),
			zap.Error(err))

		return
	}

	span.SetStatus(codes.Ok, "")
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{}) {
	ctx, span := p.StartRepositorySpan(ctx, "event."+event, entity, append([]attribute.KeyValue{
		attribute.String("event", event),
		attribute.String("entity_id", entityID),
	}, toAttributes(metadata)...))
	defer span.End()

	if p.metrics != nil {
		p.metrics.RecordTaskOperation(ctx, event)
	}

	p.logger.InfoWithTrace(ctx, "Business event recorded",
		zap.String("event", event),
		zap.String("entity", entity),
		zap.String("entity_id", entityID),
		zap.Any("metadata", metadata))
}

// RecordError marks the span in ctx failed and counts the error. Callers log it themselves.
func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err, trace.WithAttributes(toAttributes(metadata)...))
	span.SetStatus(codes.Error, err.Error())

	if p.metrics != nil {
		p.metrics.RecordOperationError(ctx, operation)
	}
}

func toAttributes(values map[string]interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(values))

	for key, value := range values {
		switch v := value.(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		default:
			attrs = append(attrs, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return attrs
}
