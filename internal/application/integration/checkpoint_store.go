package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"go.uber.org/zap"
)

// InterruptedMessage is the error message left on checkpoints that were
// still RUNNING when the process started
const InterruptedMessage = "interrupted"

// CheckpointStore manages the durable progress of each sync domain
type CheckpointStore struct {
	repo   integration.SyncCheckpointRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewCheckpointStore creates a new CheckpointStore
func NewCheckpointStore(repo integration.SyncCheckpointRepository, logger *zap.Logger) *CheckpointStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckpointStore{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetOrCreate returns the checkpoint of a domain, creating it on first use
func (s *CheckpointStore) GetOrCreate(ctx context.Context, domain integration.SyncDomain) (*integration.SyncCheckpoint, error) {
	checkpoint, err := s.repo.FindByDomain(ctx, domain)
	if err == nil {
		return checkpoint, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	checkpoint, err = s.repo.CreateIfAbsent(ctx, integration.NewSyncCheckpoint(domain, s.now()))
	if err != nil {
		return nil, fmt.Errorf("create checkpoint for %s: %w", domain, err)
	}
	s.logger.Info("Sync checkpoint created", zap.String("domain", domain.String()))
	return checkpoint, nil
}

// BeginRun acquires the run lock of the checkpoint's domain and marks it
// RUNNING. On success the checkpoint is replaced by the row stored under the
// lock, so a run started from a stale read still resumes from the latest
// progress. When the lock is held by another run, or the domain is paused,
// the checkpoint is left untouched and ErrSyncAlreadyRunning or
// ErrSyncPaused is returned.
func (s *CheckpointStore) BeginRun(ctx context.Context, checkpoint *integration.SyncCheckpoint) error {
	if checkpoint.IsPaused() {
		return integration.ErrSyncPaused
	}

	begin := *checkpoint
	begin.Begin(s.now())

	locked, err := s.repo.TryBeginRun(ctx, &begin)
	if err != nil {
		return err
	}
	if locked != nil {
		*checkpoint = *locked
		return nil
	}

	current, err := s.repo.FindByDomain(ctx, checkpoint.Domain)
	if err == nil && current.IsPaused() {
		return integration.ErrSyncPaused
	}
	return integration.ErrSyncAlreadyRunning
}

// RecordPageProgress persists the progress made after a fully handled page
func (s *CheckpointStore) RecordPageProgress(ctx context.Context, checkpoint *integration.SyncCheckpoint, page, processed, failed int) error {
	checkpoint.RecordPage(page, processed, failed, s.now())
	return s.repo.Save(ctx, checkpoint)
}

// CompleteRun marks a fully successful run
func (s *CheckpointStore) CompleteRun(ctx context.Context, checkpoint *integration.SyncCheckpoint) error {
	checkpoint.Complete(s.now())
	return s.repo.Save(ctx, checkpoint)
}

// FailRun marks a failed run, keeping the last processed page
func (s *CheckpointStore) FailRun(ctx context.Context, checkpoint *integration.SyncCheckpoint, cause error) error {
	message := "unknown error"
	if cause != nil {
		message = cause.Error()
	}
	checkpoint.Fail(message, s.now())
	return s.repo.Save(ctx, checkpoint)
}

// List returns every checkpoint
func (s *CheckpointStore) List(ctx context.Context) ([]*integration.SyncCheckpoint, error) {
	return s.repo.FindAll(ctx)
}

// RecoverInterrupted releases run locks left behind by a process that died
// mid-run. It must only be called before any run starts.
func (s *CheckpointStore) RecoverInterrupted(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkInterrupted(ctx, InterruptedMessage, s.now())
	if err != nil {
		return 0, fmt.Errorf("recover interrupted checkpoints: %w", err)
	}
	if n > 0 {
		s.logger.Warn("Recovered interrupted sync runs", zap.Int64("count", n))
	}
	return n, nil
}

// Pause stops future runs of a domain until Resume is called. A domain
// held by a run cannot be paused.
func (s *CheckpointStore) Pause(ctx context.Context, domain integration.SyncDomain) (*integration.SyncCheckpoint, error) {
	if _, err := s.GetOrCreate(ctx, domain); err != nil {
		return nil, err
	}
	paused, err := s.repo.TryPause(ctx, domain, s.now())
	if err != nil {
		return nil, err
	}
	if !paused {
		return nil, shared.ErrInvalidState.WithMessage("cannot pause a running sync")
	}
	return s.repo.FindByDomain(ctx, domain)
}

// Resume releases a paused domain
func (s *CheckpointStore) Resume(ctx context.Context, domain integration.SyncDomain) (*integration.SyncCheckpoint, error) {
	checkpoint, err := s.GetOrCreate(ctx, domain)
	if err != nil {
		return nil, err
	}
	if !checkpoint.IsPaused() {
		return nil, shared.ErrInvalidState.WithMessage("sync is not paused")
	}
	checkpoint.Resume(s.now())
	if err := s.repo.Save(ctx, checkpoint); err != nil {
		return nil, err
	}
	return checkpoint, nil
}
