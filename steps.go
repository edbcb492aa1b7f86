package vivasync

import (
	"context"

	"github.com/aminat2005/viva-sync/internal/api"
	"github.com/aminat2005/viva-sync/internal/types"
)

// Steps fetches the cumulative step count for date ("" for today). A day
// with no record yet comes back as a zero-valued record.
func (c *Client) Steps(ctx context.Context, date string) (*StepRecord, error) {
	if date == "" {
		date = c.tracker.Today()
	}
	rec, err := api.GetSteps(ctx, c.transport, date)
	if err != nil {
		return nil, c.surface(err)
	}
	return rec, nil
}

// SetSteps stores today's cumulative step count. Steps are absolute, not
// increments, so the write is idempotent and safe to retry.
func (c *Client) SetSteps(ctx context.Context, steps int) (*StepRecord, error) {
	c.tracker.Check()
	rec, err := api.SetSteps(ctx, c.transport, types.UpdateStepsRequest{
		Steps: steps,
		Date:  c.tracker.Today(),
	})
	if err != nil {
		return nil, c.surface(err)
	}
	return rec, nil
}
