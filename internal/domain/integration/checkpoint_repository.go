package integration

import (
	"context"
	"time"
)

// SyncCheckpointRepository defines the interface for checkpoint persistence
type SyncCheckpointRepository interface {
	// FindByDomain returns the checkpoint of a domain or shared.ErrNotFound
	FindByDomain(ctx context.Context, domain SyncDomain) (*SyncCheckpoint, error)

	// FindAll returns every checkpoint ordered by domain
	FindAll(ctx context.Context) ([]*SyncCheckpoint, error)

	// CreateIfAbsent inserts the checkpoint unless a row for its domain
	// already exists. It returns the stored row either way.
	CreateIfAbsent(ctx context.Context, checkpoint *SyncCheckpoint) (*SyncCheckpoint, error)

	// Save persists all fields of an existing checkpoint
	Save(ctx context.Context, checkpoint *SyncCheckpoint) error

	// TryBeginRun atomically moves the domain's checkpoint to RUNNING unless
	// it is already RUNNING or PAUSED, persisting the begin fields of the
	// given checkpoint. On success it returns the stored row as of the lock;
	// it returns nil when the run lock was not acquired.
	TryBeginRun(ctx context.Context, checkpoint *SyncCheckpoint) (*SyncCheckpoint, error)

	// TryPause atomically moves the domain's checkpoint to PAUSED unless a
	// run holds it. It returns false when the checkpoint is RUNNING.
	TryPause(ctx context.Context, domain SyncDomain, now time.Time) (bool, error)

	// MarkInterrupted moves every RUNNING checkpoint to FAILED with the given
	// message and returns the number of affected rows
	MarkInterrupted(ctx context.Context, message string, now time.Time) (int64, error)
}
