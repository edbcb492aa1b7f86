// Package daybound detects calendar-day rollover and drives the reset of
// all day-scoped client state. A single persisted marker answers "is this
// still today"; whenever it disagrees with the local clock, every
// registered reset hook runs, the marker is advanced, and a refetch hook
// pulls the new day's authoritative data from the server.
package daybound

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/aminat2005/viva-sync/internal/kvstore"
)

// DateLayout is the local calendar-date form used everywhere in the SDK.
const DateLayout = "2006-01-02"

// markerKey is where the boundary marker lives in the side channel.
const markerKey = "viva.day.marker"

// DefaultInterval is the poll period of the background check.
const DefaultInterval = 60 * time.Second

var rolloversTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "viva_sync",
	Name:      "day_rollovers_total",
	Help:      "Calendar-day rollovers detected and handled.",
})

// Tracker is a two-state machine (current/stale). Check runs the
// transition; Start polls Check on a timer until the context is done or
// Stop is called.
type Tracker struct {
	store    kvstore.Store
	now      func() time.Time
	interval time.Duration

	mu      sync.Mutex
	resets  []func(newDate string)
	refetch func(newDate string)

	done    chan struct{}
	stopped uint32
	wg      sync.WaitGroup
}

// New builds a Tracker over the given side channel. now may be nil for
// the wall clock; interval <= 0 selects DefaultInterval.
func New(store kvstore.Store, now func() time.Time, interval time.Duration) *Tracker {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Tracker{
		store:    store,
		now:      now,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// OnReset registers a hook invoked with the new date while a rollover is
// being handled. Hooks run in registration order, all before the marker
// is persisted, so the reset is atomic from the caller's perspective.
func (t *Tracker) OnReset(fn func(newDate string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resets = append(t.resets, fn)
}

// OnRefetch registers the hook fired after a completed reset, so the new
// day's server-side data (a peer tab or server job may already have some)
// can be pulled in.
func (t *Tracker) OnRefetch(fn func(newDate string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refetch = fn
}

// Today returns the current local date string.
func (t *Tracker) Today() string {
	return t.now().Format(DateLayout)
}

// Check compares the persisted marker to the actual local date and, when
// they differ, runs the full reset sequence. Returns true when a rollover
// was handled. Running Check repeatedly on the same day is a no-op after
// the first reset.
func (t *Tracker) Check() bool {
	t.mu.Lock()

	today := t.now().Format(DateLayout)
	if marker, ok := t.store.Get(markerKey); ok && marker == today {
		t.mu.Unlock()
		return false
	}

	log.Info().Str("date", today).Msg("daybound: day rollover, resetting day-scoped state")
	for _, reset := range t.resets {
		reset(today)
	}
	t.store.Set(markerKey, today)
	refetch := t.refetch
	t.mu.Unlock()

	rolloversTotal.Inc()
	if refetch != nil {
		refetch(today)
	}
	return true
}

// Start launches the periodic check. The goroutine exits when ctx is done
// or Stop is called.
func (t *Tracker) Start(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.Check()
			case <-ctx.Done():
				return
			case <-t.done:
				return
			}
		}
	}()
}

// Stop cancels the periodic check and waits for it to exit. Idempotent.
func (t *Tracker) Stop() {
	if !atomic.CompareAndSwapUint32(&t.stopped, 0, 1) {
		return
	}
	close(t.done)
	t.wg.Wait()
}
