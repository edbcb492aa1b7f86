// Package ledger enforces the daily logging invariants on the client:
// at most one logged instance per meal category per calendar day, with
// slots reopening when the underlying record is deleted. It mirrors
// server state optimistically; the server remains authoritative, so a
// failed submission releases the slot rather than leaving ghost state.
package ledger

import (
	"sync"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
	"github.com/aminat2005/viva-sync/internal/types"
)

// slotState tracks one meal category for the current day.
type slotState int

const (
	open slotState = iota
	pending
	logged
)

// Slot is the externally visible state of one category.
type Slot struct {
	Logged   bool
	ServerID string
}

// Ledger is the per-day slot map. Safe for concurrent use.
type Ledger struct {
	mu    sync.Mutex
	date  string
	slots map[types.MealCategory]*entry
}

type entry struct {
	state    slotState
	serverID string
}

// New returns an empty ledger for date.
func New(date string) *Ledger {
	l := &Ledger{}
	l.reset(date)
	return l
}

func (l *Ledger) reset(date string) {
	l.date = date
	l.slots = make(map[types.MealCategory]*entry, len(types.MealCategories))
	for _, c := range types.MealCategories {
		l.slots[c] = &entry{}
	}
}

// Date returns the calendar day the ledger currently covers.
func (l *Ledger) Date() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.date
}

// CanLog reports whether category is still open today. A slot that is
// mid-submission counts as taken so two rapid taps cannot double-log.
func (l *Ledger) CanLog(category types.MealCategory) bool {
	if !category.Valid() {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slots[category].state == open
}

// Reserve takes the slot for an in-flight submission. Fails with a
// classified already-logged error when the slot is taken.
func (l *Ledger) Reserve(category types.MealCategory) error {
	if !category.Valid() {
		e := apierrors.New(apierrors.KindValidation, "Unknown meal category.")
		e.Fields = map[string][]string{"category": {"must be breakfast, lunch, dinner or snack"}}
		return e
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.slots[category].state != open {
		return apierrors.New(apierrors.KindAlreadyLogged, "You've already logged "+string(category)+" today.")
	}
	l.slots[category].state = pending
	return nil
}

// Commit marks a reserved slot as logged with the server's record id.
func (l *Ledger) Commit(category types.MealCategory, serverID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[category]
	s.state = logged
	s.serverID = serverID
}

// Release reopens a reserved or logged slot. Used both for rollback after
// a failed submission and when the user deletes the day's record.
func (l *Ledger) Release(category types.MealCategory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[category]
	s.state = open
	s.serverID = ""
}

// Get returns the visible state of category.
func (l *Ledger) Get(category types.MealCategory) Slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[category]
	return Slot{Logged: s.state == logged, ServerID: s.serverID}
}

// Reset clears every slot for a new calendar day.
func (l *Ledger) Reset(date string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset(date)
}

// Rehydrate rebuilds slot state from the server's records for date. A
// meal log that succeeded server-side just before the process died is
// reconstructed as logged here, keeping the exclusivity invariant across
// reloads. Same-day reservations held by an in-flight submission are
// preserved; reopening them mid-submission would let a second tap
// double-log.
func (l *Ledger) Rehydrate(date string, meals []types.Meal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.slots
	sameDay := l.date == date
	l.reset(date)
	if sameDay {
		for c, s := range prev {
			if s.state == pending {
				l.slots[c] = s
			}
		}
	}
	for _, m := range meals {
		if m.Date != "" && m.Date != date {
			continue
		}
		if s, ok := l.slots[m.Category]; ok && s.state != pending {
			s.state = logged
			s.serverID = m.ID
		}
	}
}
