package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/erp/storesync/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestNewSyncMetrics_NilMeter(t *testing.T) {
	sm, err := telemetry.NewSyncMetrics(telemetry.SyncMetricsConfig{
		Meter:  nil,
		Logger: zap.NewNop(),
	})

	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
	assert.Nil(t, sm)
}

func TestSyncMetrics_Noop(t *testing.T) {
	sm, err := telemetry.NewSyncMetrics(telemetry.SyncMetricsConfig{
		Meter: noop.NewMeterProvider().Meter("test"),
	})
	require.NoError(t, err)

	// Should not panic
	sm.RecordRun(context.Background(), "ORDER", "success", time.Second)
	sm.RecordRecords(context.Background(), "ORDER", 10, 1)
}

func TestSyncMetrics_Export(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	sm, err := telemetry.NewSyncMetrics(telemetry.SyncMetricsConfig{
		Meter: provider.Meter("test"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	sm.RecordRun(ctx, "CUSTOMER", "success", 2*time.Second)
	sm.RecordRun(ctx, "CUSTOMER", "failed", time.Second)
	sm.RecordRecords(ctx, "CUSTOMER", 100, 0)
	sm.RecordRecords(ctx, "CUSTOMER", 36, 1)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	t.Run("runs by outcome", func(t *testing.T) {
		sum, ok := byName["sync_runs_total"].Data.(metricdata.Sum[int64])
		require.True(t, ok)
		assert.Len(t, sum.DataPoints, 2)
		for _, dp := range sum.DataPoints {
			assert.Equal(t, int64(1), dp.Value)
		}
	})

	t.Run("records by result", func(t *testing.T) {
		sum, ok := byName["sync_records_total"].Data.(metricdata.Sum[int64])
		require.True(t, ok)
		totals := make(map[string]int64)
		for _, dp := range sum.DataPoints {
			result, _ := dp.Attributes.Value(attribute.Key("result"))
			totals[result.AsString()] = dp.Value
		}
		assert.Equal(t, int64(136), totals[telemetry.RecordResultProcessed])
		assert.Equal(t, int64(1), totals[telemetry.RecordResultFailed])
	})

	t.Run("duration", func(t *testing.T) {
		hist, ok := byName["sync_run_duration_seconds"].Data.(metricdata.Histogram[float64])
		require.True(t, ok)
		require.Len(t, hist.DataPoints, 1)
		assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
		assert.InDelta(t, 3.0, hist.DataPoints[0].Sum, 0.001)
	})
}

func TestMeterProvider_InjectedReader(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:     true,
		ServiceName: "storesync-test",
		Reader:      reader,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	assert.True(t, mp.IsEnabled())

	sm, err := telemetry.NewSyncMetrics(telemetry.SyncMetricsConfig{Meter: mp.Meter(telemetry.SyncMeterName)})
	require.NoError(t, err)
	sm.RecordRun(context.Background(), "PRODUCT", "skipped", 0)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	// other instrumentation in the process may register on the same provider
	var scope *metricdata.ScopeMetrics
	for i := range rm.ScopeMetrics {
		if rm.ScopeMetrics[i].Scope.Name == telemetry.SyncMeterName {
			scope = &rm.ScopeMetrics[i]
		}
	}
	require.NotNil(t, scope)
	require.Len(t, scope.Metrics, 1)
	assert.Equal(t, "sync_runs_total", scope.Metrics[0].Name)
}

func TestMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter(telemetry.SyncMeterName))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
