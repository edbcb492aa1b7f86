package syncqueue

import "time"

// Config tunes an Executor. Zero values select the defaults applied in
// NewExecutor.
type Config struct {
	// Shards is the number of worker goroutines; jobs with the same key
	// always land on the same shard.
	Shards int

	// QueueSize is the per-shard buffer.
	QueueSize int

	// EnqueueTimeout bounds how long Submit blocks on a full shard before
	// reporting back-pressure.
	EnqueueTimeout time.Duration

	// MaxAttempts bounds retries of a retryable job failure.
	MaxAttempts int

	// BaseBackoff is the first retry interval; it doubles per attempt up
	// to MaxInterval.
	BaseBackoff time.Duration
	MaxInterval time.Duration

	// ErrorHandler receives errors from jobs that exhausted retries or
	// failed irrecoverably. May be nil.
	ErrorHandler func(error)
}
