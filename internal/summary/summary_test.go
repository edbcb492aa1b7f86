package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aminat2005/viva-sync/internal/types"
)

func TestBuild_FullDay(t *testing.T) {
	t.Parallel()

	nutrition := NutritionDay{Meals: []types.Meal{
		{Category: types.Breakfast, Calories: 300, ProteinG: 12, CarbsG: 40, FatG: 8},
		{Category: types.Lunch, Calories: 650, ProteinG: 30, CarbsG: 70, FatG: 20},
	}}
	activity := ActivityDay{
		Activities: []types.Activity{{Name: "Running", CaloriesBurned: 420}},
		Steps:      8000,
	}
	targets := types.Targets{CaloriesKcal: 2000, Steps: 10000, WorkoutsPerWeek: 7}

	s := Build("2026-08-31", nutrition, activity, targets)

	assert.Equal(t, 950.0, s.ConsumedKcal)
	assert.Equal(t, 420.0, s.BurnedKcal)
	assert.Equal(t, 530.0, s.NetKcal)
	assert.Equal(t, 42.0, s.ProteinG)
	assert.Equal(t, 110.0, s.CarbsG)
	assert.Equal(t, 28.0, s.FatG)
	assert.Equal(t, 2, s.MealsLogged)
	assert.Equal(t, 1, s.WorkoutsLogged)
	assert.InDelta(t, 0.475, s.CalorieProgress, 1e-9)
	assert.InDelta(t, 0.8, s.StepProgress, 1e-9)
	assert.InDelta(t, 1.0, s.WorkoutProgress, 1e-9)
}

func TestBuild_DegradesToZerosOnMissingHalf(t *testing.T) {
	t.Parallel()

	targets := types.Targets{CaloriesKcal: 2000, Steps: 10000}

	// Nutrition fetch failed: its half is zero, activity still counts.
	s := Build("2026-08-31", NutritionDay{}, ActivityDay{Steps: 4000}, targets)
	assert.Zero(t, s.ConsumedKcal)
	assert.Zero(t, s.MealsLogged)
	assert.Equal(t, 4000, s.Steps)
	assert.InDelta(t, 0.4, s.StepProgress, 1e-9)

	// Both halves missing: a valid all-zero summary, not an error.
	empty := Build("2026-08-31", NutritionDay{}, ActivityDay{}, targets)
	assert.Zero(t, empty.ConsumedKcal)
	assert.Zero(t, empty.NetKcal)
}

func TestBuild_ZeroTargetsYieldZeroRatios(t *testing.T) {
	t.Parallel()

	s := Build("2026-08-31", NutritionDay{Meals: []types.Meal{{Calories: 500}}}, ActivityDay{Steps: 100}, types.Targets{})
	assert.Zero(t, s.CalorieProgress)
	assert.Zero(t, s.StepProgress)
	assert.Zero(t, s.WorkoutProgress)
}
