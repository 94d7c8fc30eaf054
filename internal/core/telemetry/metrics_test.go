package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAppMetrics(t *testing.T) {
	RegisterTestingT(t)
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	metrics := NewAppMetrics(registry)

	metrics.RecordRequest(ctx, "GET", "/tasks", 200, 10*time.Millisecond)
	metrics.RecordRequest(ctx, "GET", "/tasks", 200, 20*time.Millisecond)
	metrics.RecordTaskOperation(ctx, "task_created")
	metrics.RecordDatabaseOperation(ctx, "Create", "task", nil)
	metrics.RecordDatabaseOperation(ctx, "Create", "task", errors.New("boom"))
	metrics.RecordCacheHit(ctx, "tasks")
	metrics.RecordCacheMiss(ctx, "tasks")
	metrics.RecordCacheMiss(ctx, "tasks")

	Expect(testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/tasks", "200"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.taskOperations.WithLabelValues("task_created"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("Create", "task", "error"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.cacheHits.WithLabelValues("tasks"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.cacheMisses.WithLabelValues("tasks"))).To(Equal(2.0))

	metrics.IncrementActiveConnections(ctx)
	metrics.IncrementActiveConnections(ctx)
	metrics.DecrementActiveConnections(ctx)
	Expect(testutil.ToFloat64(metrics.activeConnections)).To(Equal(1.0))
}

func TestTelemetryOperation_NoOp(t *testing.T) {
	RegisterTestingT(t)
	boom := errors.New("boom")

	ctx, op := StartOperation(context.Background(), nil, "GetAll", "task")

	Expect(ctx).ToNot(BeNil())
	Expect(op.End(boom)).To(Equal(boom))
}
