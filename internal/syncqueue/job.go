package syncqueue

import "context"

// Job is one unit of background sync work (e.g. pushing a water intake
// delta to the server). Run must be safe for repeated invocation; the
// worker retries retryable failures.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a closure to a Job.
type JobFunc func(ctx context.Context) error

// Run implements Job for JobFunc.
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }
