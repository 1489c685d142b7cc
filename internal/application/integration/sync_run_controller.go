package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/infrastructure/logger"
	"github.com/erp/storesync/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRateLimit is the pause between two page fetches
const DefaultRateLimit = time.Second

// ErrRecordPanicked wraps a panic raised while reconciling one record
var ErrRecordPanicked = errors.New("integration: record reconciliation panicked")

// SyncRunController runs incremental sync passes, one domain at a time.
//
// A run pages through the remote store starting after the checkpoint's last
// processed page, reconciles every record in its own unit of work, and
// records progress after every page. Remote failures abort the run and keep
// the page for the next run; record failures are counted and skipped.
type SyncRunController struct {
	checkpoints *CheckpointStore
	remote      integration.RemoteCatalog
	uow         integration.UnitOfWork
	customers   *CustomerReconciler
	orders      *OrderReconciler
	products    *ProductReconciler
	rateLimit   time.Duration
	logger      *zap.Logger
	metrics     *telemetry.SyncMetrics

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	// async runs launched by Trigger*
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSyncRunController creates a new SyncRunController
func NewSyncRunController(
	checkpoints *CheckpointStore,
	remote integration.RemoteCatalog,
	uow integration.UnitOfWork,
	rateLimit time.Duration,
	log *zap.Logger,
) *SyncRunController {
	if log == nil {
		log = zap.NewNop()
	}
	if rateLimit < 0 {
		rateLimit = DefaultRateLimit
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	return &SyncRunController{
		checkpoints: checkpoints,
		remote:      remote,
		uow:         uow,
		customers:   NewCustomerReconciler(),
		orders:      NewOrderReconciler(),
		products:    NewProductReconciler(remote, NewVariationReconciler()),
		rateLimit:   rateLimit,
		logger:      log.Named("sync"),
		now:         func() time.Time { return time.Now().UTC() },
		sleep:       sleepContext,
		baseCtx:     baseCtx,
		cancel:      cancel,
	}
}

// SetSyncMetrics sets the sync metrics collector
func (c *SyncRunController) SetSyncMetrics(m *telemetry.SyncMetrics) {
	c.metrics = m
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

// RunAll runs every domain in RunOrder. A failed domain does not stop the
// domains after it.
func (c *SyncRunController) RunAll(ctx context.Context) []integration.SyncResult {
	results := make([]integration.SyncResult, 0, len(integration.RunOrder))
	for _, domain := range integration.RunOrder {
		results = append(results, c.Run(ctx, domain))
	}
	return results
}

// Run performs one incremental pass over a domain
func (c *SyncRunController) Run(ctx context.Context, domain integration.SyncDomain) (result integration.SyncResult) {
	result = integration.SyncResult{Domain: domain, StartedAt: c.now()}

	runID := uuid.NewString()
	ctx, span := telemetry.StartRunSpan(ctx, domain.String(), runID)
	ctx, log := logger.WithRunID(ctx, logger.WithTraceContext(ctx, c.logger.With(zap.String("domain", domain.String()))), runID)

	defer func() {
		result.FinishedAt = c.now()
		span.Finish(telemetry.RunOutcome{
			Processed: result.Processed,
			Failed:    result.Failed,
			Success:   result.Success,
			Skipped:   result.Skipped,
			Error:     result.ErrorMessage,
		})
		if c.metrics != nil {
			c.metrics.RecordRun(ctx, domain.String(), result.Outcome(), result.Duration())
		}
	}()

	if !domain.IsValid() {
		result.ErrorMessage = fmt.Errorf("%w: %q", integration.ErrUnknownSyncDomain, domain).Error()
		return result
	}

	checkpoint, err := c.checkpoints.GetOrCreate(ctx, domain)
	if err != nil {
		log.Error("Failed to load sync checkpoint", zap.Error(err))
		result.ErrorMessage = err.Error()
		return result
	}

	if err := c.checkpoints.BeginRun(ctx, checkpoint); err != nil {
		result.ErrorMessage = err.Error()
		if errors.Is(err, integration.ErrSyncAlreadyRunning) || errors.Is(err, integration.ErrSyncPaused) {
			result.Skipped = true
			log.Info("Sync run skipped", zap.String("reason", err.Error()))
			return result
		}
		log.Error("Failed to begin sync run", zap.Error(err))
		return result
	}

	state := &runState{
		domain:     domain,
		checkpoint: checkpoint,
		cache:      newEntityCache(),
		logger:     log,
	}
	log.Info("Sync run started",
		zap.Int("start_page", checkpoint.StartPage()),
		zap.Timep("modified_after", checkpoint.ModifiedAfter()),
	)
	span.SetStartPage(checkpoint.StartPage())

	loopErr := c.runDomain(ctx, state)
	result.Processed = state.processed
	result.Failed = state.failed

	// The run context may already be cancelled; the checkpoint must still be written.
	writeCtx := context.WithoutCancel(ctx)
	if loopErr != nil {
		if err := c.checkpoints.FailRun(writeCtx, checkpoint, loopErr); err != nil {
			log.Error("Failed to persist failed sync checkpoint", zap.Error(err))
		}
		log.Error("Sync run failed",
			zap.Error(loopErr),
			zap.Int("processed", state.processed),
			zap.Int("failed", state.failed),
			zap.Intp("last_processed_page", checkpoint.LastProcessedPage),
		)
		result.ErrorMessage = loopErr.Error()
		return result
	}

	if err := c.checkpoints.CompleteRun(writeCtx, checkpoint); err != nil {
		log.Error("Failed to persist completed sync checkpoint", zap.Error(err))
		result.ErrorMessage = err.Error()
		return result
	}

	log.Info("Sync run completed",
		zap.Int("processed", state.processed),
		zap.Int("failed", state.failed),
	)
	result.Success = true
	return result
}

// ---------------------------------------------------------------------------
// Pagination loop
// ---------------------------------------------------------------------------

type runState struct {
	domain     integration.SyncDomain
	checkpoint *integration.SyncCheckpoint
	cache      *entityCache
	logger     *zap.Logger
	processed  int
	failed     int
}

// pipeline binds the generic page loop to one domain
type pipeline[T any] struct {
	fetch     func(ctx context.Context, page int, modifiedAfter *time.Time) ([]T, error)
	reconcile func(ctx context.Context, scope ReconcileScope, record T) (ReconcileOutcome, error)
	remoteID  func(record T) int64
}

func (c *SyncRunController) runDomain(ctx context.Context, state *runState) error {
	switch state.domain {
	case integration.SyncDomainCustomer:
		return runPages(ctx, c, state, pipeline[integration.RemoteCustomer]{
			fetch:     c.remote.FetchCustomers,
			reconcile: c.customers.Reconcile,
			remoteID:  func(r integration.RemoteCustomer) int64 { return r.RemoteID },
		})
	case integration.SyncDomainOrder:
		return runPages(ctx, c, state, pipeline[integration.RemoteOrder]{
			fetch:     c.remote.FetchOrders,
			reconcile: c.orders.Reconcile,
			remoteID:  func(r integration.RemoteOrder) int64 { return r.RemoteID },
		})
	case integration.SyncDomainProduct:
		return runPages(ctx, c, state, pipeline[integration.RemoteProduct]{
			fetch:     c.remote.FetchProducts,
			reconcile: c.products.Reconcile,
			remoteID:  func(r integration.RemoteProduct) int64 { return r.RemoteID },
		})
	default:
		return fmt.Errorf("%w: %q", integration.ErrUnknownSyncDomain, state.domain)
	}
}

func runPages[T any](ctx context.Context, c *SyncRunController, state *runState, p pipeline[T]) error {
	page := state.checkpoint.StartPage()
	modifiedAfter := state.checkpoint.ModifiedAfter()
	pageSize := c.remote.PageSize()

	for {
		records, err := p.fetch(ctx, page, modifiedAfter)
		if err != nil {
			return fmt.Errorf("fetch %s page %d: %w", state.domain, page, err)
		}
		if len(records) == 0 {
			state.logger.Debug("Empty page, end of stream", zap.Int("page", page))
			return nil
		}

		pageFailed := 0
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}

			remoteID := p.remoteID(record)
			outcome, err := c.reconcileRecord(ctx, state, func(ctx context.Context, scope ReconcileScope) (ReconcileOutcome, error) {
				return p.reconcile(ctx, scope, record)
			})
			if err != nil {
				if integration.IsRemoteError(err) {
					return fmt.Errorf("%s %d: %w", state.domain, remoteID, err)
				}
				state.failed++
				pageFailed++
				state.logger.Warn("Failed to reconcile record",
					zap.Int64("remote_id", remoteID),
					zap.Int("page", page),
					zap.Int("cached_customers", state.cache.size()),
					zap.Error(err),
				)
				state.cache.reset()
				continue
			}
			state.processed++
			state.logger.Debug("Record reconciled",
				zap.Int64("remote_id", remoteID),
				zap.String("outcome", string(outcome)),
			)
		}

		if err := c.checkpoints.RecordPageProgress(ctx, state.checkpoint, page, state.processed, state.failed); err != nil {
			return fmt.Errorf("record progress of page %d: %w", page, err)
		}
		if c.metrics != nil {
			c.metrics.RecordRecords(ctx, state.domain.String(), len(records)-pageFailed, pageFailed)
		}
		state.logger.Debug("Page processed",
			zap.Int("page", page),
			zap.Int("records", len(records)),
			zap.Int("failed", pageFailed),
		)

		if len(records) < pageSize {
			return nil
		}
		page++
		if err := c.sleep(ctx, c.rateLimit); err != nil {
			return err
		}
	}
}

// reconcileRecord runs fn in its own unit of work. A panic is turned into
// an error after the unit of work has rolled back.
func (c *SyncRunController) reconcileRecord(
	ctx context.Context,
	state *runState,
	fn func(ctx context.Context, scope ReconcileScope) (ReconcileOutcome, error),
) (outcome ReconcileOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRecordPanicked, r)
		}
	}()

	err = c.uow.Do(ctx, func(ctx context.Context, repos integration.Repositories) error {
		scope := ReconcileScope{
			Repos:  repos,
			Logger: state.logger,
			Now:    c.now(),
			cache:  state.cache,
		}
		var fnErr error
		outcome, fnErr = fn(ctx, scope)
		return fnErr
	})
	return outcome, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ---------------------------------------------------------------------------
// Fire-and-forget triggers
// ---------------------------------------------------------------------------

// TriggerAsync starts a run of one domain in the background and returns
// immediately. The result is only logged.
func (c *SyncRunController) TriggerAsync(domain integration.SyncDomain) {
	c.launch(func(ctx context.Context) {
		c.logResult(c.Run(ctx, domain))
	})
}

// TriggerAllAsync starts RunAll in the background and returns immediately
func (c *SyncRunController) TriggerAllAsync() {
	c.launch(func(ctx context.Context) {
		for _, r := range c.RunAll(ctx) {
			c.logResult(r)
		}
	})
}

func (c *SyncRunController) launch(fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(c.baseCtx)
	}()
}

func (c *SyncRunController) logResult(r integration.SyncResult) {
	c.logger.Info("Triggered sync finished",
		zap.String("domain", r.Domain.String()),
		zap.String("outcome", r.Outcome()),
		zap.Int("processed", r.Processed),
		zap.Int("failed", r.Failed),
		zap.String("error", r.ErrorMessage),
		zap.Duration("duration", r.Duration()),
	)
}

// Shutdown cancels background runs and waits for them to finish or for
// ctx to expire
func (c *SyncRunController) Shutdown(ctx context.Context) error {
	c.cancel()
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
