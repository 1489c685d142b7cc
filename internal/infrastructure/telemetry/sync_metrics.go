package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned by NewSyncMetrics without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Metric attribute keys
var (
	AttrSyncDomain  = attribute.Key("domain")
	AttrSyncOutcome = attribute.Key("outcome")
	AttrSyncResult  = attribute.Key("result")
)

// Record results reported by RecordRecords
const (
	RecordResultProcessed = "processed"
	RecordResultFailed    = "failed"
)

// SyncDurationBuckets are bucket boundaries for sync run duration (seconds).
// Runs range from a single empty page to full catalog scans.
var SyncDurationBuckets = []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600}

// SyncMetrics records sync run activity.
//
// Metrics:
//   - sync_runs_total{domain,outcome}
//   - sync_records_total{domain,result}
//   - sync_run_duration_seconds{domain}
type SyncMetrics struct {
	logger *zap.Logger

	runsTotal    metric.Int64Counter
	recordsTotal metric.Int64Counter
	runDuration  metric.Float64Histogram
}

// SyncMetricsConfig holds configuration for sync metrics.
type SyncMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewSyncMetrics creates the sync instruments on the given meter
func NewSyncMetrics(cfg SyncMetricsConfig) (*SyncMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sm := &SyncMetrics{logger: logger}

	var err error
	sm.runsTotal, err = cfg.Meter.Int64Counter("sync_runs_total",
		metric.WithDescription("Total number of sync runs by outcome"),
		metric.WithUnit("{runs}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter sync_runs_total: %w", err)
	}

	sm.recordsTotal, err = cfg.Meter.Int64Counter("sync_records_total",
		metric.WithDescription("Total number of remote records reconciled"),
		metric.WithUnit("{records}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter sync_records_total: %w", err)
	}

	sm.runDuration, err = cfg.Meter.Float64Histogram("sync_run_duration_seconds",
		metric.WithDescription("Wall time of sync runs"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(SyncDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram sync_run_duration_seconds: %w", err)
	}

	return sm, nil
}

// RecordRun records the outcome and duration of one run
func (sm *SyncMetrics) RecordRun(ctx context.Context, domain, outcome string, duration time.Duration) {
	sm.runsTotal.Add(ctx, 1, metric.WithAttributes(
		AttrSyncDomain.String(domain),
		AttrSyncOutcome.String(outcome),
	))
	if duration > 0 {
		sm.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(AttrSyncDomain.String(domain)))
	}
}

// RecordRecords adds processed and failed record counts of one page
func (sm *SyncMetrics) RecordRecords(ctx context.Context, domain string, processed, failed int) {
	if processed > 0 {
		sm.recordsTotal.Add(ctx, int64(processed), metric.WithAttributes(
			AttrSyncDomain.String(domain),
			AttrSyncResult.String(RecordResultProcessed),
		))
	}
	if failed > 0 {
		sm.recordsTotal.Add(ctx, int64(failed), metric.WithAttributes(
			AttrSyncDomain.String(domain),
			AttrSyncResult.String(RecordResultFailed),
		))
	}
}
