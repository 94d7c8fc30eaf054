package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "taskapp"

// AddSpanError records err on span and marks it failed
func AddSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func AddSpanEvent(span trace.Span, name string, attrs []attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

func AddDatabaseAttributes(span trace.Span, system, table, operation string) {
	span.SetAttributes(
		attribute.String("db.system", system),
		attribute.String("db.table", table),
		attribute.String("db.operation", operation),
	)
}

func AddHTTPAttributes(span trace.Span, method string, url string, statusCode int) {
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", url),
		attribute.Int("http.status_code", statusCode),
	)
}

// GetTraceID returns the trace id of the span in ctx, or "" when there is none
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}

// CreateChildSpan starts a span under ctx on the application tracer
func CreateChildSpan(ctx context.Context, name string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// SpanWrapper runs fn inside a child span and records its error
func SpanWrapper(ctx context.Context, name string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	ctx, span := CreateChildSpan(ctx, name, attrs)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		AddSpanError(span, err)
	}

	return err
}

// DatabaseSpanWrapper runs fn inside a db.<table>.<operation> span carrying the db attributes.
func DatabaseSpanWrapper(ctx context.Context, system, table, operation string, fn func(context.Context) error) error {
	ctx, span := CreateChildSpan(ctx, fmt.Sprintf("db.%s.%s", table, operation), nil)
	defer span.End()

	AddDatabaseAttributes(span, system, table, operation)

	err := fn(ctx)
	if err != nil {
		AddSpanError(span, err)
	}

	return err
}
