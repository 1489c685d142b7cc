package integration

import "time"

// SyncResult summarizes one run of one domain
type SyncResult struct {
	Domain       SyncDomain
	Success      bool
	Skipped      bool // the run lock was not acquired; the checkpoint is untouched
	Processed    int
	Failed       int
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns the wall time of the run
func (r SyncResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome returns a short label for logs and metrics
func (r SyncResult) Outcome() string {
	switch {
	case r.Success:
		return "success"
	case r.Skipped:
		return "skipped"
	default:
		return "failed"
	}
}
