package integration

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Sync Errors
// ---------------------------------------------------------------------------

var (
	// Run errors
	ErrSyncAlreadyRunning = errors.New("integration: sync already running for this domain")
	ErrSyncPaused         = errors.New("integration: sync is paused for this domain")
	ErrUnknownSyncDomain  = errors.New("integration: unknown sync domain")

	// Remote source errors. All of them abort the current run.
	ErrRemoteRateLimited = errors.New("integration: remote store rate limited")
	ErrRemoteAPI         = errors.New("integration: remote store API error")
	ErrRemoteUnavailable = errors.New("integration: remote store unavailable")
)

// RemoteAPIError carries the HTTP status of a failed remote call.
// It matches ErrRemoteAPI with errors.Is.
type RemoteAPIError struct {
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", ErrRemoteAPI, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", ErrRemoteAPI, e.StatusCode, e.Body)
}

// Is makes RemoteAPIError match ErrRemoteAPI
func (e *RemoteAPIError) Is(target error) bool {
	return target == ErrRemoteAPI
}

// IsRemoteError reports whether err came from the remote source rather than
// from local reconciliation
func IsRemoteError(err error) bool {
	return errors.Is(err, ErrRemoteRateLimited) ||
		errors.Is(err, ErrRemoteAPI) ||
		errors.Is(err, ErrRemoteUnavailable)
}
