// Package water implements the cumulative, clamped, optimistic water
// intake counter. The local durable shadow is the source of truth for
// water: every mutation is persisted to the side channel before the
// server write resolves, and a failed server write never rolls the local
// value back. This is a deliberate policy difference from the meal
// ledger, where the server is authoritative.
package water

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
	"github.com/aminat2005/viva-sync/internal/kvstore"
	"github.com/aminat2005/viva-sync/internal/types"
)

// OverLimitFactor caps one day's intake at this multiple of the target.
const OverLimitFactor = 3.0

// Thresholds are the notification edges, in percent of target.
var Thresholds = []int{50, 100}

// HistoryEntry is one recorded increment in the day's shadow counter.
type HistoryEntry struct {
	ID        string    `json:"id"` // local uuid, stable across syncs
	ServerID  string    `json:"server_id,omitempty"`
	AmountL   float64   `json:"amount_l"`
	Timestamp time.Time `json:"timestamp"`
}

// shadow is the JSON document persisted per day in the side channel.
type shadow struct {
	Date     string         `json:"date"`
	Consumed float64        `json:"consumed"`
	Target   float64        `json:"target"`
	History  []HistoryEntry `json:"history"`
	Fired    map[int]bool   `json:"fired_thresholds,omitempty"`
}

// ThresholdFunc is invoked at most once per day per threshold, when an
// add crosses that percentage of target (edge-triggered).
type ThresholdFunc func(threshold int, consumedL, targetL float64)

// Accumulator owns one user's water intake state. Safe for concurrent use.
type Accumulator struct {
	store     kvstore.Store
	now       func() time.Time
	threshold ThresholdFunc

	mu sync.Mutex
	s  shadow
}

// New builds an Accumulator with the given daily target. onThreshold may
// be nil; now may be nil for the wall clock.
func New(store kvstore.Store, targetL float64, onThreshold ThresholdFunc, now func() time.Time) *Accumulator {
	if now == nil {
		now = time.Now
	}
	return &Accumulator{
		store:     store,
		now:       now,
		threshold: onThreshold,
		s:         shadow{Target: targetL, Fired: map[int]bool{}},
	}
}

func dayKey(date string) string { return "viva.water." + date }

// LoadDay replaces in-memory state with the persisted shadow for date, so
// a page reload before server confirmation does not lose increments. A
// missing or corrupt shadow yields a fresh day at the current target.
func (a *Accumulator) LoadDay(date string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	target := a.s.Target
	a.s = shadow{Date: date, Target: target, Fired: map[int]bool{}}
	raw, ok := a.store.Get(dayKey(date))
	if !ok {
		return
	}
	var loaded shadow
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		log.Warn().Str("date", date).Err(err).Msg("water: discarding corrupt shadow")
		a.store.Delete(dayKey(date))
		return
	}
	if loaded.Fired == nil {
		loaded.Fired = map[int]bool{}
	}
	if loaded.Target <= 0 {
		loaded.Target = target
	}
	loaded.Date = date
	a.s = loaded
}

// Add records one intake increment. It rejects amounts that would push
// the day past OverLimitFactor × target, leaving state untouched;
// otherwise the total, history and durable shadow are all updated before
// any network write, and crossed thresholds fire.
func (a *Accumulator) Add(amountL float64) (HistoryEntry, float64, error) {
	if amountL <= 0 {
		e := apierrors.New(apierrors.KindValidation, "Water amount must be positive.")
		e.Fields = map[string][]string{"amount": {"must be greater than zero"}}
		return HistoryEntry{}, a.Consumed(), e
	}

	a.mu.Lock()

	ceiling := OverLimitFactor * a.s.Target
	if a.s.Target > 0 && a.s.Consumed+amountL > ceiling {
		consumed := a.s.Consumed
		a.mu.Unlock()
		return HistoryEntry{}, consumed, apierrors.New(apierrors.KindOverLimit,
			"That would exceed the daily safety limit for water intake.")
	}

	before := a.s.Consumed
	entry := HistoryEntry{ID: uuid.NewString(), AmountL: amountL, Timestamp: a.now()}
	a.s.Consumed += amountL
	a.s.History = append(a.s.History, entry)
	a.persistLocked()

	fired := a.crossedLocked(before, a.s.Consumed)
	consumed, target := a.s.Consumed, a.s.Target
	a.mu.Unlock()

	for _, thr := range fired {
		a.threshold(thr, consumed, target)
	}
	return entry, consumed, nil
}

// Remove deletes the history entry with the given local id, decrementing
// the total (clamped at zero) and updating the shadow. Removing an
// unknown id is a no-op.
func (a *Accumulator) Remove(entryID string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, e := range a.s.History {
		if e.ID == entryID {
			a.s.History = append(a.s.History[:i], a.s.History[i+1:]...)
			a.s.Consumed -= e.AmountL
			if a.s.Consumed < 0 {
				a.s.Consumed = 0
			}
			a.persistLocked()
			break
		}
	}
	return a.s.Consumed
}

// SetServerID records the server-side id for a synced history entry.
func (a *Accumulator) SetServerID(entryID, serverID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.s.History {
		if a.s.History[i].ID == entryID {
			a.s.History[i].ServerID = serverID
			a.persistLocked()
			return
		}
	}
}

// Entry returns the history entry with the given local id.
func (a *Accumulator) Entry(entryID string) (HistoryEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.s.History {
		if e.ID == entryID {
			return e, true
		}
	}
	return HistoryEntry{}, false
}

// Consumed returns the day's running total in liters.
func (a *Accumulator) Consumed() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.s.Consumed
}

// Target returns the configured daily target in liters.
func (a *Accumulator) Target() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.s.Target
}

// SetTarget changes the daily target without touching consumed state.
func (a *Accumulator) SetTarget(targetL float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.s.Target = targetL
	a.persistLocked()
}

// History returns a copy of the day's entries in insertion order.
func (a *Accumulator) History() []HistoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]HistoryEntry, len(a.s.History))
	copy(out, a.s.History)
	return out
}

// Progress returns consumed/target, or 0 when no target is set.
func (a *Accumulator) Progress() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.s.Target <= 0 {
		return 0
	}
	return a.s.Consumed / a.s.Target
}

// ResetForNewDay clears consumed, history and fired thresholds but keeps
// the target, then persists the fresh shadow under the new date.
func (a *Accumulator) ResetForNewDay(date string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.s = shadow{Date: date, Target: a.s.Target, Fired: map[int]bool{}}
	a.persistLocked()
}

// Reconcile merges the server's view of today after a reconnect or
// reload. Divergence resolves max-of-both: the richer history wins, so
// locally recorded intake is never lost and server-confirmed intake is
// never undercounted. No threshold notifications fire from reconciliation.
func (a *Accumulator) Reconcile(entries []types.WaterEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var serverTotal float64
	for _, e := range entries {
		serverTotal += e.AmountL
	}
	if serverTotal <= a.s.Consumed {
		return
	}

	history := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		history = append(history, HistoryEntry{
			ID:        uuid.NewString(),
			ServerID:  e.ID,
			AmountL:   e.AmountL,
			Timestamp: e.Timestamp,
		})
	}
	a.s.Consumed = serverTotal
	a.s.History = history
	// Thresholds already passed must not re-fire on the next small add.
	for _, thr := range Thresholds {
		if a.s.Target > 0 && a.s.Consumed/a.s.Target*100 >= float64(thr) {
			a.s.Fired[thr] = true
		}
	}
	a.persistLocked()
}

// ------------------------- internals -------------------------

// crossedLocked marks and returns thresholds newly crossed by the move
// from before to after liters. Caller holds the lock.
func (a *Accumulator) crossedLocked(before, after float64) []int {
	if a.threshold == nil || a.s.Target <= 0 {
		return nil
	}
	var fired []int
	beforePct := before / a.s.Target * 100
	afterPct := after / a.s.Target * 100
	for _, thr := range Thresholds {
		if a.s.Fired[thr] {
			continue
		}
		if beforePct < float64(thr) && afterPct >= float64(thr) {
			a.s.Fired[thr] = true
			fired = append(fired, thr)
		}
	}
	if len(fired) > 0 {
		a.persistLocked()
	}
	return fired
}

func (a *Accumulator) persistLocked() {
	if a.s.Date == "" {
		a.s.Date = a.now().Format("2006-01-02")
	}
	raw, err := json.Marshal(a.s)
	if err != nil {
		log.Error().Err(err).Msg("water: shadow marshal failed")
		return
	}
	a.store.Set(dayKey(a.s.Date), string(raw))
}
