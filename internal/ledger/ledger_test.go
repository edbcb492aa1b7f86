package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
	"github.com/aminat2005/viva-sync/internal/types"
)

func TestExclusivityPerCategory(t *testing.T) {
	t.Parallel()
	l := New("2026-08-31")

	for _, c := range types.MealCategories {
		require.True(t, l.CanLog(c), "%s should start open", c)
		require.NoError(t, l.Reserve(c))
		l.Commit(c, "srv-"+string(c))

		assert.False(t, l.CanLog(c))
		err := l.Reserve(c)
		assert.Equal(t, apierrors.KindAlreadyLogged, apierrors.KindOf(err))
	}

	// Deleting reopens the slot for the same day.
	l.Release(types.Lunch)
	assert.True(t, l.CanLog(types.Lunch))
	assert.NoError(t, l.Reserve(types.Lunch))
}

func TestReserveBlocksConcurrentDoubleLog(t *testing.T) {
	t.Parallel()
	l := New("2026-08-31")

	require.NoError(t, l.Reserve(types.Dinner))
	// While the first submission is in flight the slot reads as taken.
	assert.False(t, l.CanLog(types.Dinner))
	err := l.Reserve(types.Dinner)
	assert.Equal(t, apierrors.KindAlreadyLogged, apierrors.KindOf(err))

	// Failed submission: rollback leaves no ghost state.
	l.Release(types.Dinner)
	assert.True(t, l.CanLog(types.Dinner))
	assert.Equal(t, Slot{}, l.Get(types.Dinner))
}

func TestInvalidCategory(t *testing.T) {
	t.Parallel()
	l := New("2026-08-31")
	assert.False(t, l.CanLog("brunch"))
	err := l.Reserve("brunch")
	assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
}

func TestResetClearsAllSlots(t *testing.T) {
	t.Parallel()
	l := New("2026-08-31")
	require.NoError(t, l.Reserve(types.Breakfast))
	l.Commit(types.Breakfast, "42")

	l.Reset("2026-09-01")
	assert.Equal(t, "2026-09-01", l.Date())
	for _, c := range types.MealCategories {
		assert.True(t, l.CanLog(c), "%s should reopen on a new day", c)
	}
}

func TestRehydrateFromServer(t *testing.T) {
	t.Parallel()
	l := New("2026-08-31")

	// Reload scenario: lunch succeeded server-side before the process
	// died; rehydration must reconstruct logged=true from server data.
	l.Rehydrate("2026-08-31", []types.Meal{
		{ID: "7", Category: types.Lunch, Date: "2026-08-31"},
		{ID: "8", Category: types.Snack, Date: "2026-08-30"}, // stale, ignored
	})

	assert.False(t, l.CanLog(types.Lunch))
	assert.Equal(t, Slot{Logged: true, ServerID: "7"}, l.Get(types.Lunch))
	assert.True(t, l.CanLog(types.Snack))
	assert.True(t, l.CanLog(types.Breakfast))
}

func TestRehydratePreservesInFlightReservation(t *testing.T) {
	t.Parallel()
	l := New("2026-08-31")

	// A breakfast submission is mid-flight when a same-day rehydration
	// (login, refetch) lands. The reservation must survive, or a second
	// tap could double-log.
	require.NoError(t, l.Reserve(types.Breakfast))
	l.Rehydrate("2026-08-31", []types.Meal{
		{ID: "7", Category: types.Lunch, Date: "2026-08-31"},
	})

	assert.False(t, l.CanLog(types.Breakfast))
	err := l.Reserve(types.Breakfast)
	assert.Equal(t, apierrors.KindAlreadyLogged, apierrors.KindOf(err))
	assert.False(t, l.CanLog(types.Lunch))

	// The in-flight submission still settles normally.
	l.Commit(types.Breakfast, "9")
	assert.Equal(t, Slot{Logged: true, ServerID: "9"}, l.Get(types.Breakfast))

	// A new-day rehydration clears everything, reservations included.
	l.Rehydrate("2026-09-01", nil)
	assert.True(t, l.CanLog(types.Breakfast))
}
