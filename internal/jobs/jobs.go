// Package jobs runs background jobs stored in the jobs table. Jobs are
// enqueued inside the same transaction as the data they refer to and picked
// up by a pool of polling workers.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/garnizeh/inspections/pkg/models"
)

// Job states written to the jobs table.
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusRetry   = "retry"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Handler processes one job. A returned error schedules a retry until the
// job runs out of attempts.
type Handler func(ctx context.Context, j *models.BackgroundJob) error

// ErrMaxAttempts indicates the job reached max attempts
var ErrMaxAttempts = errors.New("max attempts reached")

// ErrNoHandler is recorded on jobs whose type has no registered handler.
var ErrNoHandler = errors.New("no handler")

// BackoffDuration returns exponential backoff duration for attempt n
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	if attempt > 16 {
		attempt = 16
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	maxBackoff := 5 * time.Minute
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
