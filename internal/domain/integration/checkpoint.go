package integration

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// CheckpointStatus
// ---------------------------------------------------------------------------

// CheckpointStatus represents the state of a domain's sync progress
type CheckpointStatus string

const (
	CheckpointStatusRunning CheckpointStatus = "RUNNING"
	CheckpointStatusSuccess CheckpointStatus = "SUCCESS"
	CheckpointStatusFailed  CheckpointStatus = "FAILED"
	CheckpointStatusPaused  CheckpointStatus = "PAUSED"
)

// IsValid returns true if the status is valid
func (s CheckpointStatus) IsValid() bool {
	switch s {
	case CheckpointStatusRunning, CheckpointStatusSuccess, CheckpointStatusFailed, CheckpointStatusPaused:
		return true
	default:
		return false
	}
}

// String returns the string representation of CheckpointStatus
func (s CheckpointStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// SyncCheckpoint
// ---------------------------------------------------------------------------

// SyncCheckpoint is the durable progress record of one sync domain.
// There is exactly one checkpoint per domain.
type SyncCheckpoint struct {
	ID                    uuid.UUID
	Domain                SyncDomain
	Status                CheckpointStatus
	LastSuccessfulSync    *time.Time
	LastAttemptedSync     *time.Time
	LastProcessedPage     *int // non-nil only while a run is in flight or after it failed
	TotalRecordsProcessed int
	FailedRecords         int
	ErrorMessage          *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewSyncCheckpoint creates the initial checkpoint of a domain. A fresh
// checkpoint reports SUCCESS with no progress so that the first run
// performs a full remote scan from page 1.
func NewSyncCheckpoint(domain SyncDomain, now time.Time) *SyncCheckpoint {
	return &SyncCheckpoint{
		ID:        uuid.New(),
		Domain:    domain,
		Status:    CheckpointStatusSuccess,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsRunning reports whether a run currently holds the domain
func (c *SyncCheckpoint) IsRunning() bool {
	return c.Status == CheckpointStatusRunning
}

// IsPaused reports whether an operator paused the domain
func (c *SyncCheckpoint) IsPaused() bool {
	return c.Status == CheckpointStatusPaused
}

// StartPage returns the first page the next run must fetch
func (c *SyncCheckpoint) StartPage() int {
	if c.LastProcessedPage == nil {
		return 1
	}
	return *c.LastProcessedPage + 1
}

// ModifiedAfter returns the incremental filter of the next run; nil means
// a full scan
func (c *SyncCheckpoint) ModifiedAfter() *time.Time {
	return c.LastSuccessfulSync
}

// Begin marks the start of a run. Counters describe the current run only.
func (c *SyncCheckpoint) Begin(now time.Time) {
	c.Status = CheckpointStatusRunning
	c.LastAttemptedSync = &now
	c.TotalRecordsProcessed = 0
	c.FailedRecords = 0
	c.UpdatedAt = now
}

// RecordPage stores the progress made after a fully handled page
func (c *SyncCheckpoint) RecordPage(page, processed, failed int, now time.Time) {
	c.LastProcessedPage = &page
	c.TotalRecordsProcessed = processed
	c.FailedRecords = failed
	c.UpdatedAt = now
}

// Complete marks a fully successful run; the next run starts fresh at page 1
func (c *SyncCheckpoint) Complete(now time.Time) {
	c.Status = CheckpointStatusSuccess
	c.LastSuccessfulSync = &now
	c.LastProcessedPage = nil
	c.ErrorMessage = nil
	c.UpdatedAt = now
}

// Fail marks a failed run. LastProcessedPage is kept so that the next run
// resumes after the last completed page.
func (c *SyncCheckpoint) Fail(message string, now time.Time) {
	c.Status = CheckpointStatusFailed
	c.ErrorMessage = &message
	c.UpdatedAt = now
}

// Pause parks the domain until Resume is called
func (c *SyncCheckpoint) Pause(now time.Time) {
	c.Status = CheckpointStatusPaused
	c.UpdatedAt = now
}

// Resume releases a paused domain. The previous outcome is not known any
// more, so a resumed domain with a pending page reports FAILED (resumable)
// and one without reports SUCCESS.
func (c *SyncCheckpoint) Resume(now time.Time) {
	if c.LastProcessedPage != nil {
		c.Status = CheckpointStatusFailed
	} else {
		c.Status = CheckpointStatusSuccess
	}
	c.UpdatedAt = now
}
