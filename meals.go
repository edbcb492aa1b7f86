package vivasync

import (
	"context"

	"github.com/aminat2005/viva-sync/internal/api"
	"github.com/aminat2005/viva-sync/internal/ledger"
	"github.com/aminat2005/viva-sync/internal/optimistic"
)

// CanLog reports whether category is still open today. A submission in
// flight counts as taken, so a second rapid tap fails fast.
func (c *Client) CanLog(category MealCategory) bool {
	c.tracker.Check()
	return c.ledger.CanLog(category)
}

// MealSlotState returns the visible state of one meal slot.
func (c *Client) MealSlotState(category MealCategory) MealSlot {
	c.tracker.Check()
	return c.ledger.Get(category)
}

// RecordMeal logs a meal into its daily slot. The slot is reserved
// before the network call and released again if the call fails, so the
// slot-per-day invariant holds across concurrent submissions but a
// failed submission leaves no ghost state.
func (c *Client) RecordMeal(ctx context.Context, req CreateMealRequest) (*Meal, error) {
	c.tracker.Check()
	if req.Date == "" {
		req.Date = c.tracker.Today()
	}

	var created *Meal
	err := optimistic.Do(ctx, optimistic.Mutation[struct{}]{
		Snapshot: func() struct{} { return struct{}{} },
		Apply:    func() error { return c.ledger.Reserve(req.Category) },
		Restore:  func(struct{}) { c.ledger.Release(req.Category) },
	}, func(ctx context.Context) error {
		m, err := api.CreateMeal(ctx, c.transport, req)
		if err != nil {
			return err
		}
		created = m
		c.ledger.Commit(req.Category, m.ID)
		return nil
	})
	if err != nil {
		return nil, c.surface(err)
	}
	return created, nil
}

// DeleteMeal removes today's record for category, reopening its slot
// optimistically. If the server rejects the delete the slot is restored
// with its original record id.
func (c *Client) DeleteMeal(ctx context.Context, category MealCategory) error {
	c.tracker.Check()

	slot := c.ledger.Get(category)
	if !slot.Logged || slot.ServerID == "" {
		return c.surface(notFoundToday(string(category)))
	}

	err := optimistic.Do(ctx, optimistic.Mutation[ledger.Slot]{
		Snapshot: func() ledger.Slot { return slot },
		Apply:    func() error { c.ledger.Release(category); return nil },
		Restore:  func(pre ledger.Slot) { c.ledger.Commit(category, pre.ServerID) },
	}, func(ctx context.Context) error {
		return api.DeleteMeal(ctx, c.transport, slot.ServerID)
	})
	return c.surface(err)
}

// Meals returns the meals logged on date ("" for today).
func (c *Client) Meals(ctx context.Context, date string) ([]Meal, error) {
	if date == "" {
		date = c.tracker.Today()
	}
	meals, err := api.ListMeals(ctx, c.transport, date)
	if err != nil {
		return nil, c.surface(err)
	}
	return meals, nil
}

// RecordActivity logs a workout. Activities have no slot exclusivity;
// the call is a plain server write.
func (c *Client) RecordActivity(ctx context.Context, req CreateActivityRequest) (*Activity, error) {
	c.tracker.Check()
	if req.Date == "" {
		req.Date = c.tracker.Today()
	}
	a, err := api.CreateActivity(ctx, c.transport, req)
	if err != nil {
		return nil, c.surface(err)
	}
	return a, nil
}

// DeleteActivity removes a logged workout by server id.
func (c *Client) DeleteActivity(ctx context.Context, activityID string) error {
	return c.surface(api.DeleteActivity(ctx, c.transport, activityID))
}

// Activities returns the workouts logged on date ("" for today).
func (c *Client) Activities(ctx context.Context, date string) ([]Activity, error) {
	if date == "" {
		date = c.tracker.Today()
	}
	acts, err := api.ListActivities(ctx, c.transport, date)
	if err != nil {
		return nil, c.surface(err)
	}
	return acts, nil
}

func notFoundToday(what string) *Error {
	return &Error{Kind: KindNotFound, Message: "No " + what + " is logged today."}
}
