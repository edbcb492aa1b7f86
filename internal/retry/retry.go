// Package retry wraps an operation with bounded exponential-backoff retry.
// Only failures the classifier marks retryable (network, 408/429, 5xx) are
// retried; everything else propagates on the first attempt. The final error
// is returned unchanged so retry stays invisible to the error taxonomy.
package retry

import (
	"context"
	"math/rand"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
)

// Options tune a Do call. Zero values select the defaults.
type Options struct {
	// MaxAttempts bounds the total number of attempts, first try included.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt; each subsequent
	// wait doubles it.
	BaseDelay time.Duration

	// MaxJitter bounds the random extra delay added to every wait so
	// concurrent callers don't retry in lockstep.
	MaxJitter time.Duration
}

func (o *Options) applyDefaults() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 4
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
	if o.MaxJitter <= 0 {
		o.MaxJitter = time.Second
	}
}

// Do runs fn up to opts.MaxAttempts times. The wait before attempt n+1 is
// BaseDelay * 2^(n-1) plus uniform jitter in [0, MaxJitter). Waits abort
// early when ctx is cancelled, returning ctx.Err().
func Do(ctx context.Context, fn func(context.Context) error, opts Options) error {
	opts.applyDefaults()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = opts.BaseDelay
	exp.Multiplier = 2
	// Jitter is added separately below so the deterministic floor of each
	// wait is exactly BaseDelay * 2^(n-1).
	exp.RandomizationFactor = 0
	exp.MaxInterval = time.Hour
	exp.MaxElapsedTime = 0
	exp.Reset()

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !apierrors.IsRetryable(err) {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return err
		}

		wait := exp.NextBackOff() + time.Duration(rand.Int63n(int64(opts.MaxJitter)))
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
