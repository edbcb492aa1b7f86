package vivasync

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to
// discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aminat2005/viva-sync/internal/retry"
)

// Option configures a Client during construction in New. Options are
// applied before any transport wiring, so transport-related options
// (like debug logging) end up beneath the auth wrapper.
type Option func(*Client) error

// WithHTTPTimeout bounds one HTTP attempt end to end (connect, TLS,
// redirects, body). Retries multiply the worst-case wait, so keep this
// coarse. Must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.httpTimeout = d
		return nil
	}
}

// WithHTTPClient substitutes the underlying HTTP client. Its transport
// is preserved beneath the auth wrapper.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) error {
		if h == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.http = h
		return nil
	}
}

// WithStore replaces the in-memory side channel with a durable one (see
// OpenSQLiteStore). State that must survive restarts — credentials, the
// day marker, the water shadow — lives here.
func WithStore(s Store) Option {
	return func(c *Client) error {
		if s == nil {
			return fmt.Errorf("store cannot be nil")
		}
		c.store = s
		return nil
	}
}

// WithUserID scopes all side-channel keys to one account, so two users
// on the same device never read each other's state.
func WithUserID(userID string) Option {
	return func(c *Client) error {
		c.userID = userID
		return nil
	}
}

// WithNotifier registers the sink for user-facing notifications (error
// toasts, water-goal celebrations, deferred-sync notices).
func WithNotifier(n Notifier) Option {
	return func(c *Client) error {
		c.notifier = n
		return nil
	}
}

// WithClock substitutes the time source. Tests use this to force day
// rollovers.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithRetryPolicy tunes the per-request retry loop. Zero values keep the
// defaults (4 attempts, 1s base delay, 1s max jitter).
func WithRetryPolicy(maxAttempts int, baseDelay, maxJitter time.Duration) Option {
	return func(c *Client) error {
		c.retryOpts = retry.Options{MaxAttempts: maxAttempts, BaseDelay: baseDelay, MaxJitter: maxJitter}
		return nil
	}
}

// WithBoundaryInterval changes the day-rollover poll period (default
// 60s). Mainly for tests.
func WithBoundaryInterval(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("boundary interval must be > 0")
		}
		c.pollInterval = d
		return nil
	}
}

// WithSyncShards sets the number of background sync workers.
func WithSyncShards(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			return fmt.Errorf("shard count must be > 0")
		}
		c.queueCfg.Shards = n
		return nil
	}
}

// WithWaterTarget seeds the daily water target in liters before the
// first profile fetch overrides it.
func WithWaterTarget(liters float64) Option {
	return func(c *Client) error {
		if liters < 0 {
			return fmt.Errorf("water target cannot be negative")
		}
		c.initialTarget = liters
		return nil
	}
}

// WithDebugLogging wraps the transport so each request/response is
// dumped to the log when enabled. Not for production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debugHTTP = enabled
		return nil
	}
}

// withExecutor swaps the background queue. Test hook.
func withExecutor(e executor) Option {
	return func(c *Client) error {
		c.exec = e
		return nil
	}
}
