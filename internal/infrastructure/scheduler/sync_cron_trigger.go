package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/erp/storesync/internal/domain/integration"
)

// SyncRunner runs a full sync pass over all domains
type SyncRunner interface {
	RunAll(ctx context.Context) []integration.SyncResult
}

// SyncCronTriggerConfig holds configuration for the sync cron trigger
type SyncCronTriggerConfig struct {
	// Spec is a six-field cron expression, seconds first
	Spec string
}

// DefaultSyncCronTriggerConfig returns the hourly schedule
func DefaultSyncCronTriggerConfig() SyncCronTriggerConfig {
	return SyncCronTriggerConfig{Spec: "0 0 * * * *"}
}

// SyncCronTrigger runs RunAll on a cron schedule. A tick that fires while
// the previous pass is still running is skipped.
type SyncCronTrigger struct {
	config SyncCronTriggerConfig
	runner SyncRunner
	logger *zap.Logger

	cron      *cron.Cron
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncCronTrigger creates a new sync cron trigger
func NewSyncCronTrigger(config SyncCronTriggerConfig, runner SyncRunner, logger *zap.Logger) *SyncCronTrigger {
	return &SyncCronTrigger{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start schedules the sync job. Runs receive a context derived from ctx
// that is cancelled by Stop.
func (t *SyncCronTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return ErrAlreadyRunning
	}

	cronLogger := zapCronLogger{logger: t.logger}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	runCtx, cancel := context.WithCancel(ctx)
	if _, err := c.AddFunc(t.config.Spec, func() { t.runOnce(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("%w: cron spec %q: %v", ErrInvalidConfig, t.config.Spec, err)
	}

	t.cron = c
	t.cancel = cancel
	t.isRunning = true
	c.Start()

	t.logger.Info("Sync cron trigger started", zap.String("spec", t.config.Spec))
	return nil
}

// runOnce executes one scheduled sync pass
func (t *SyncCronTrigger) runOnce(ctx context.Context) {
	t.wg.Add(1)
	defer t.wg.Done()

	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	results := t.runner.RunAll(ctx)

	fields := make([]zap.Field, 0, len(results)+1)
	for _, r := range results {
		fields = append(fields, zap.String(r.Domain.String(), r.Outcome()))
	}
	fields = append(fields, zap.Duration("duration", time.Since(start)))
	t.logger.Info("Scheduled sync finished", fields...)
}

// Stop stops scheduling, cancels an in-flight pass and waits for it
func (t *SyncCronTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	c, cancel := t.cron, t.cancel
	t.mu.Unlock()

	cancel()
	cronDone := c.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sync cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Debugw("cron: "+msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
