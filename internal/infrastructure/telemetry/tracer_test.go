package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_InjectedExporter(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	exporter := tracetest.NewInMemoryExporter()
	tp, err := NewTracerProvider(context.Background(), Config{
		Enabled:        true,
		SamplingRatio:  1.0,
		ServiceName:    "storesync-test",
		ServiceVersion: "1.2.3",
		Exporter:       exporter,
	}, nil)
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	_, span := StartRunSpan(context.Background(), "ORDER", "run-1")
	span.Finish(RunOutcome{Success: true})

	require.NoError(t, tp.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	require.Len(t, spans, 1)
	assert.Equal(t, "sync.run", spans[0].Name)

	version, ok := spans[0].Resource.Set().Value(attribute.Key("service.version"))
	require.True(t, ok)
	assert.Equal(t, "1.2.3", version.AsString())
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1.0).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestRunSpan(t *testing.T) {
	tests := []struct {
		name        string
		outcome     RunOutcome
		wantCode    codes.Code
		wantSkipped bool
		wantEvents  int
	}{
		{
			name:     "success",
			outcome:  RunOutcome{Processed: 120, Failed: 2, Success: true},
			wantCode: codes.Ok,
		},
		{
			name:        "skipped",
			outcome:     RunOutcome{Skipped: true, Error: "sync already running"},
			wantCode:    codes.Unset,
			wantSkipped: true,
		},
		{
			name:       "failed",
			outcome:    RunOutcome{Processed: 100, Error: "fetch ORDER page 2: remote unavailable"},
			wantCode:   codes.Error,
			wantEvents: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := recordSpans(t)

			_, span := StartRunSpan(context.Background(), "ORDER", "run-7")
			span.SetStartPage(3)
			span.Finish(tt.outcome)

			ended := recorder.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, "sync.run", ended[0].Name())
			assert.Equal(t, tt.wantCode, ended[0].Status().Code)
			assert.Len(t, ended[0].Events(), tt.wantEvents)

			attrs := spanAttrs(ended[0])
			assert.Equal(t, "ORDER", attrs[SpanAttrSyncDomain].AsString())
			assert.Equal(t, "run-7", attrs[SpanAttrRunID].AsString())
			assert.Equal(t, int64(3), attrs[SpanAttrStartPage].AsInt64())
			assert.Equal(t, int64(tt.outcome.Processed), attrs[SpanAttrProcessed].AsInt64())
			_, skipped := attrs[SpanAttrSkipped]
			assert.Equal(t, tt.wantSkipped, skipped)
		})
	}
}
