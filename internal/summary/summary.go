// Package summary recombines independently fetched nutrition, activity
// and step data into the derived daily totals the dashboard and progress
// views share. Build is a pure function; a half that failed to load is
// passed as its zero value and degrades to zeros instead of failing the
// whole summary.
package summary

import "github.com/aminat2005/viva-sync/internal/types"

// NutritionDay is the day's meal data, as fetched by the nutrition view.
type NutritionDay struct {
	Meals []types.Meal
}

// ActivityDay is the day's workout and step data.
type ActivityDay struct {
	Activities []types.Activity
	Steps      int
}

// Summary is the derived daily roll-up.
type Summary struct {
	Date string

	ConsumedKcal float64
	BurnedKcal   float64
	NetKcal      float64
	ProteinG     float64
	CarbsG       float64
	FatG         float64

	MealsLogged    int
	WorkoutsLogged int
	Steps          int

	// Progress ratios against the configured targets, 0 when the target
	// is unset. CalorieProgress can exceed 1; the UI clamps for display.
	CalorieProgress float64
	StepProgress    float64
	// WorkoutProgress compares today's workouts to the weekly goal's
	// daily pace (goal/7).
	WorkoutProgress float64
}

// Build computes the summary for one day.
func Build(date string, nutrition NutritionDay, activity ActivityDay, targets types.Targets) Summary {
	s := Summary{Date: date, Steps: activity.Steps}

	for _, m := range nutrition.Meals {
		s.ConsumedKcal += m.Calories
		s.ProteinG += m.ProteinG
		s.CarbsG += m.CarbsG
		s.FatG += m.FatG
	}
	s.MealsLogged = len(nutrition.Meals)

	for _, a := range activity.Activities {
		s.BurnedKcal += a.CaloriesBurned
	}
	s.WorkoutsLogged = len(activity.Activities)
	s.NetKcal = s.ConsumedKcal - s.BurnedKcal

	s.CalorieProgress = ratio(s.ConsumedKcal, targets.CaloriesKcal)
	s.StepProgress = ratio(float64(activity.Steps), float64(targets.Steps))
	if targets.WorkoutsPerWeek > 0 {
		s.WorkoutProgress = float64(s.WorkoutsLogged) / (float64(targets.WorkoutsPerWeek) / 7)
	}
	return s
}

func ratio(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return value / target
}
