package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"taskapp/pkg/logger"
)

func TestNewContainer_InProcess(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	container, err := NewContainer(context.Background(), Config{
		ServiceName:    "taskapp-test",
		ServiceVersion: "test",
		Environment:    "test",
	}, logger.NewNop())
	require.NoError(t, err)

	assert.Nil(t, container.MetricsServer)
	assert.NotNil(t, container.NewTelemetryProbe())

	container.AppMetrics.RecordTaskOperation(context.Background(), "create")

	recorder := httptest.NewRecorder()
	container.MetricsHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "task_operations_total")

	require.NoError(t, container.Shutdown(context.Background()))
}
