package vivasync

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/aminat2005/viva-sync/internal/api"
	"github.com/aminat2005/viva-sync/internal/summary"
	"github.com/aminat2005/viva-sync/internal/types"
)

// DailySummary fetches the day's nutrition and activity halves in
// parallel and recombines them into the shared roll-up. The halves
// degrade independently: a failed fetch contributes zeros instead of
// failing the whole summary. Only when every source fails does an error
// come back.
func (c *Client) DailySummary(ctx context.Context, date string) (*Summary, error) {
	c.tracker.Check()
	if date == "" {
		date = c.tracker.Today()
	}

	var (
		wg        sync.WaitGroup
		nutrition summary.NutritionDay
		activity  summary.ActivityDay
		targets   types.Targets

		mealsErr, actsErr, stepsErr, targetsErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		var meals []types.Meal
		if meals, mealsErr = api.ListMeals(ctx, c.transport, date); mealsErr == nil {
			nutrition.Meals = meals
		}
	}()
	go func() {
		defer wg.Done()
		var acts []types.Activity
		if acts, actsErr = api.ListActivities(ctx, c.transport, date); actsErr == nil {
			activity.Activities = acts
		}
	}()
	go func() {
		defer wg.Done()
		var rec *types.StepRecord
		if rec, stepsErr = api.GetSteps(ctx, c.transport, date); stepsErr == nil {
			activity.Steps = rec.Steps
		}
	}()
	go func() {
		defer wg.Done()
		var prof *types.Profile
		if prof, targetsErr = api.GetProfile(ctx, c.transport); targetsErr == nil {
			targets = prof.Targets
		} else if cached, ok := c.cachedProfile(); ok {
			targets = cached.Targets
			targetsErr = nil
		}
	}()
	wg.Wait()

	errs := []error{mealsErr, actsErr, stepsErr, targetsErr}
	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			log.Warn().Err(err).Str("date", date).Msg("vivasync: summary source failed, degrading")
		}
	}
	if failed == len(errs) {
		summaryBuildsTotal.WithLabelValues("failed").Inc()
		return nil, c.surface(mealsErr)
	}

	if failed == 0 {
		summaryBuildsTotal.WithLabelValues("full").Inc()
	} else {
		summaryBuildsTotal.WithLabelValues("partial").Inc()
	}

	s := summary.Build(date, nutrition, activity, targets)
	return &s, nil
}
