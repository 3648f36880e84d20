// Package jobcontext carries background-job metadata on a context and runs
// job functions with panic recovery.
package jobcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type keyContext string

var (
	keyJobID     keyContext = "job_id"
	keyJobType   keyContext = "job_type"
	keyStartTime keyContext = "job_start_time"
)

// Begin derives a job context with metadata and a timeout. Acquisition jobs
// can legitimately run for many minutes (long episodes), so callers choose
// the bound.
func Begin(parent context.Context, jobID uuid.UUID, jobType string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	ctx = context.WithValue(ctx, keyJobID, jobID)
	ctx = context.WithValue(ctx, keyJobType, jobType)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx, cancel
}

// Run executes the job function, converting panics into errors so a bad job
// never takes the process down
func Run(ctx context.Context, jobFunc func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before job execution: %w", ctx.Err())
	}
	return jobFunc(ctx)
}

// JobID extracts the job id from context
func JobID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyJobID).(uuid.UUID)
	return id, ok
}

// JobType extracts the job type from context
func JobType(ctx context.Context) (string, bool) {
	jobType, ok := ctx.Value(keyJobType).(string)
	return jobType, ok
}

// StartTime extracts the job start time from context
func StartTime(ctx context.Context) (time.Time, bool) {
	start, ok := ctx.Value(keyStartTime).(time.Time)
	return start, ok
}

// Elapsed returns how long the job has been running, zero when unknown
func Elapsed(ctx context.Context) time.Duration {
	start, ok := StartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(start)
}
