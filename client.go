// Package vivasync is the resilient data-synchronization layer of the
// Viva health app: an HTTP client that transparently refreshes expired
// credentials and retries transient failures, plus the daily-tracking
// state machines (meal ledger, water accumulator, day-boundary tracker)
// that keep independently loaded views mutually consistent.
package vivasync

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aminat2005/viva-sync/internal/api"
	"github.com/aminat2005/viva-sync/internal/daybound"
	"github.com/aminat2005/viva-sync/internal/kvstore"
	"github.com/aminat2005/viva-sync/internal/ledger"
	"github.com/aminat2005/viva-sync/internal/retry"
	"github.com/aminat2005/viva-sync/internal/syncqueue"
	"github.com/aminat2005/viva-sync/internal/transport"
	"github.com/aminat2005/viva-sync/internal/water"
)

// executor abstracts the background sync queue for tests.
type executor interface {
	Submit(ctx context.Context, key string, job syncqueue.Job) error
	Barrier(ctx context.Context, key string) error
	Stop()
}

// OpenSQLiteStore opens (creating if needed) a durable side channel
// backed by a SQLite file. Pass the result to WithStore and close it
// after the Client.
func OpenSQLiteStore(path string) (*kvstore.SQLiteStore, error) {
	return kvstore.OpenSQLite(path)
}

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is the process-wide session object. Construct one with New,
// inject it into every page, call Start after login and Close on
// teardown. All methods are safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	store   kvstore.Store
	userID  string

	tokens    *transport.TokenStore
	transport *transport.Client
	exec      executor
	tracker   *daybound.Tracker
	ledger    *ledger.Ledger
	water     *water.Accumulator

	notifier Notifier
	now      func() time.Time

	// knobs captured by options before wiring
	httpTimeout   time.Duration
	retryOpts     retry.Options
	pollInterval  time.Duration
	queueCfg      syncqueue.Config
	initialTarget float64
	debugHTTP     bool

	runMu     sync.Mutex
	runCtx    context.Context
	runCancel context.CancelFunc

	// ownedStore is set when the Client opened its own durable store
	// (NewFromConfig) and must close it.
	ownedStore interface{ Close() error }

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for the given API base URL. Additional
// configuration is provided via functional options.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:     baseURL,
		store:       kvstore.NewMemStore(),
		now:         time.Now,
		httpTimeout: transport.DefaultTimeout,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}

	c.store = kvstore.Namespaced(c.store, c.userID)

	// Work on a copy; a caller-supplied client may be shared elsewhere
	// and must not see our timeout or transport wrapping.
	httpc := &http.Client{}
	if c.http != nil {
		clone := *c.http
		httpc = &clone
	}
	httpc.Timeout = c.httpTimeout
	if c.debugHTTP {
		base := httpc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpc.Transport = &debugTransport{base: base}
	}
	c.http = httpc

	c.tokens = transport.NewTokenStore(c.store, baseURL+"/api/auth/token/refresh/")
	c.transport = transport.New(baseURL, c.tokens, c.http)
	c.transport.Retry = c.retryOpts

	if c.exec == nil {
		cfg := c.queueCfg
		cfg.ErrorHandler = c.handleSyncError
		c.exec = syncqueue.NewExecutor(cfg)
	}

	c.tracker = daybound.New(c.store, c.now, c.pollInterval)
	c.ledger = ledger.New(c.tracker.Today())
	c.water = water.New(c.store, c.initialTarget, c.fireWaterThreshold, c.now)
	c.water.LoadDay(c.tracker.Today())

	c.tracker.OnReset(func(newDate string) {
		c.ledger.Reset(newDate)
		c.water.ResetForNewDay(newDate)
	})
	c.tracker.OnRefetch(func(newDate string) {
		if ctx := c.runContext(); ctx != nil && ctx.Err() == nil {
			go c.rehydrate(ctx, newDate)
		}
	})

	return c
}

// Login exchanges credentials for a token pair, persists it, and pulls
// the initial session state (profile, today's logs) from the server.
func (c *Client) Login(ctx context.Context, email, password string) error {
	pair, err := api.Login(ctx, c.transport, LoginRequest{Email: email, Password: password})
	if err != nil {
		return c.surface(err)
	}
	c.tokens.Set(transport.Credentials{Access: pair.Access, Refresh: pair.Refresh})

	c.tracker.Check()
	c.rehydrate(ctx, c.tracker.Today())
	return nil
}

// Logout wipes stored credentials and cached profile data, then tears
// the background machinery down.
func (c *Client) Logout() {
	c.tokens.Clear()
	c.store.Delete(profileKey)
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("vivasync: teardown during logout")
	}
}

// Start boots the background machinery: an immediate day-boundary check,
// a rehydration pass against the server, and the periodic boundary poll.
// The poll stops when ctx is cancelled or Close is called.
func (c *Client) Start(ctx context.Context) {
	c.runMu.Lock()
	c.runCtx, c.runCancel = context.WithCancel(ctx)
	runCtx := c.runCtx
	c.runMu.Unlock()

	if !c.tracker.Check() {
		// Same day as the persisted marker, so the refetch hook didn't
		// run. Server state may still be ahead (peer tab, reload).
		c.rehydrate(runCtx, c.tracker.Today())
	}
	c.tracker.Start(runCtx)
}

// Close stops the boundary poll and drains the sync queue. Safe to call
// multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.runMu.Lock()
	cancel := c.runCancel
	c.runMu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.tracker.Stop()
	if c.exec != nil {
		c.exec.Stop()
	}
	if c.ownedStore != nil {
		return c.ownedStore.Close()
	}
	return nil
}

// Today returns the local calendar date the session currently considers
// current.
func (c *Client) Today() string { return c.tracker.Today() }

// CheckDayBoundary forces an immediate boundary check, as pages do on
// mount before rendering day-scoped state. Returns true when a rollover
// was detected and handled.
func (c *Client) CheckDayBoundary() bool { return c.tracker.Check() }

// AwaitSync blocks until all background writes queued under key (see
// waterSyncKey) have settled. Mainly for tests and teardown paths.
func (c *Client) AwaitSync(ctx context.Context, key string) error {
	return c.exec.Barrier(ctx, key)
}

// --------------------------------------------------------------------
// internals
// --------------------------------------------------------------------

// rehydrate rebuilds today's client state from server truth. Each fetch
// fails independently; a dead nutrition endpoint must not block water or
// profile state from loading.
func (c *Client) rehydrate(ctx context.Context, date string) {
	if prof, err := api.GetProfile(ctx, c.transport); err == nil {
		c.cacheProfile(prof)
		if prof.Targets.WaterL > 0 {
			c.water.SetTarget(prof.Targets.WaterL)
		}
	} else {
		log.Warn().Err(err).Msg("vivasync: profile rehydration failed")
	}

	c.water.LoadDay(date)

	if meals, err := api.ListMeals(ctx, c.transport, date); err == nil {
		c.ledger.Rehydrate(date, meals)
	} else {
		log.Warn().Err(err).Str("date", date).Msg("vivasync: meal rehydration failed")
	}

	if entries, err := api.ListWater(ctx, c.transport, date); err == nil {
		c.water.Reconcile(entries)
	} else {
		log.Warn().Err(err).Str("date", date).Msg("vivasync: water rehydration failed")
	}
}

// handleSyncError surfaces failures from the background queue. Water and
// step writes are best-effort: local state is already durable, so the
// user only gets an informational notice.
func (c *Client) handleSyncError(err error) {
	log.Warn().Err(err).Msg("vivasync: background sync failed")
	c.notify(Notification{
		Level:   LevelInfo,
		Kind:    KindOf(err),
		Message: "Saved locally. We'll sync with the server when the connection recovers.",
	})
}

func (c *Client) fireWaterThreshold(threshold int, consumed, target float64) {
	waterThresholdsTotal.Inc()
	c.notify(Notification{
		Level:     LevelCelebrate,
		Threshold: threshold,
		Message:   thresholdMessage(threshold, consumed, target),
	})
}

// surface emits a user-facing notification for err and returns it
// unchanged, so callers can still branch on the kind.
func (c *Client) surface(err error) error {
	if err == nil {
		return nil
	}
	c.notify(Notification{
		Level:   LevelError,
		Kind:    KindOf(err),
		Message: UserMessage(err),
	})
	return err
}

func (c *Client) runContext() context.Context {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	return c.runCtx
}

func (c *Client) notify(n Notification) {
	notificationsTotal.WithLabelValues(n.Level.String()).Inc()
	if c.notifier == nil {
		log.Debug().Str("level", n.Level.String()).Str("message", n.Message).Msg("vivasync: notification dropped (no notifier)")
		return
	}
	c.notifier(n)
}
