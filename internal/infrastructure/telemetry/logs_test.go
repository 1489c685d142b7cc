package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingExporter keeps clones of every exported record
type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) exported() []sdklog.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sdklog.Record(nil), e.records...)
}

func recordAttrs(r sdklog.Record) map[string]string {
	attrs := make(map[string]string)
	r.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.String()
		return true
	})
	return attrs
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
	assert.NoError(t, lp.ForceFlush(context.Background()))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_BridgeTeesToOTLP(t *testing.T) {
	previous := global.GetLoggerProvider()
	t.Cleanup(func() { global.SetLoggerProvider(previous) })

	exporter := &recordingExporter{}
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{
		Enabled:     true,
		ServiceName: "storesync-test",
		Exporter:    exporter,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })
	require.True(t, lp.IsEnabled())

	core, local := observer.New(zapcore.DebugLevel)
	log := lp.Bridge(zap.New(core), zapcore.InfoLevel).With(zap.String("run_id", "run-3"))

	log.Debug("Page processed")
	log.Warn("Failed to reconcile record", zap.Int64("remote_id", 42))
	require.NoError(t, lp.ForceFlush(context.Background()))

	// the local output is unchanged
	assert.Equal(t, 2, local.Len())

	records := exporter.exported()
	require.Len(t, records, 1, "debug stays below the bridge level")
	assert.Equal(t, "Failed to reconcile record", records[0].Body().AsString())
	assert.Equal(t, otellog.SeverityWarn, records[0].Severity())

	attrs := recordAttrs(records[0])
	assert.Equal(t, "run-3", attrs["run_id"])
	assert.Equal(t, "42", attrs["remote_id"])
}
