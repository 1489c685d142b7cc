package scheduler

import "errors"

// Errors returned by SyncCronTrigger.Start
var (
	ErrInvalidConfig  = errors.New("sync trigger: invalid cron configuration")
	ErrAlreadyRunning = errors.New("sync trigger: already started")
)
