package vivasync

import (
	"context"

	"github.com/aminat2005/viva-sync/internal/api"
	"github.com/aminat2005/viva-sync/internal/syncqueue"
	"github.com/aminat2005/viva-sync/internal/types"
)

// WaterStatus is the water widget's view of the day.
type WaterStatus struct {
	Date      string
	ConsumedL float64
	TargetL   float64
	Progress  float64 // consumed/target, 0 when no target set
	History   []WaterHistory
}

// waterSyncKey keys the background queue so all of a day's water writes
// stay FIFO on one shard.
func waterSyncKey(date string) string { return "water:" + date }

// AddWater records one intake increment. The local counter is
// authoritative: the total, history and durable shadow update before the
// server write, which runs on the background queue and never rolls the
// local value back on failure. Returns the new running total.
func (c *Client) AddWater(ctx context.Context, amountL float64) (float64, error) {
	c.tracker.Check()
	date := c.tracker.Today()

	entry, total, err := c.water.Add(amountL)
	if err != nil {
		return total, c.surface(err)
	}

	localID := entry.ID
	job := syncqueue.JobFunc(func(ctx context.Context) error {
		server, err := api.CreateWater(ctx, c.transport, types.CreateWaterRequest{
			AmountL: amountL,
			Date:    date,
		})
		if err != nil {
			return err
		}
		c.water.SetServerID(localID, server.ID)
		return nil
	})
	if err := c.exec.Submit(ctx, waterSyncKey(date), job); err != nil {
		// Local state is durable; the add still stands.
		c.handleSyncError(err)
	}
	return total, nil
}

// RemoveWater deletes one increment by its local history id, clamping
// the total at zero. A server-side copy is removed best-effort on the
// background queue. Returns the new running total.
func (c *Client) RemoveWater(ctx context.Context, entryID string) float64 {
	c.tracker.Check()
	date := c.tracker.Today()

	entry, ok := c.water.Entry(entryID)
	total := c.water.Remove(entryID)
	if !ok || entry.ServerID == "" {
		return total
	}

	serverID := entry.ServerID
	job := syncqueue.JobFunc(func(ctx context.Context) error {
		err := api.DeleteWater(ctx, c.transport, serverID)
		if KindOf(err) == KindNotFound {
			// Already gone server-side; the intent is satisfied.
			return nil
		}
		return err
	})
	if err := c.exec.Submit(ctx, waterSyncKey(date), job); err != nil {
		c.handleSyncError(err)
	}
	return total
}

// WaterStatus returns the current day's water state for rendering.
func (c *Client) WaterStatus() WaterStatus {
	c.tracker.Check()
	return WaterStatus{
		Date:      c.tracker.Today(),
		ConsumedL: c.water.Consumed(),
		TargetL:   c.water.Target(),
		Progress:  c.water.Progress(),
		History:   c.water.History(),
	}
}

// SetWaterTarget updates the daily water goal, on the server first and
// locally once the server confirms. Thresholds already fired today stay
// fired even if the new target re-crosses them.
func (c *Client) SetWaterTarget(ctx context.Context, liters float64) error {
	_, err := api.UpdateTargets(ctx, c.transport, types.UpdateTargetsRequest{WaterL: liters})
	if err != nil {
		return c.surface(err)
	}
	c.water.SetTarget(liters)
	c.store.Delete(profileKey) // cached profile now stale
	return nil
}
