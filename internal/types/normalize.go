package types

import (
	"time"

	"github.com/tidwall/gjson"
)

// The backend names the same quantity differently across endpoints
// ("calories" vs "energy_kcal" vs "total_calories", "date" vs
// "date_logged", ...). Each normalizer tries the known aliases in order
// and takes the first present field, so the rest of the SDK only ever
// sees the canonical record types.

// Results unwraps a list payload. Paginated endpoints return
// {"results": [...]}; a bare JSON array is accepted too.
func Results(raw []byte) []gjson.Result {
	root := gjson.ParseBytes(raw)
	if res := root.Get("results"); res.IsArray() {
		return res.Array()
	}
	if root.IsArray() {
		return root.Array()
	}
	return nil
}

// NormalizeMeal maps one meal payload onto the canonical Meal.
func NormalizeMeal(raw []byte) Meal {
	return mealFrom(gjson.ParseBytes(raw))
}

// NormalizeMeals maps a meal list payload.
func NormalizeMeals(raw []byte) []Meal {
	items := Results(raw)
	meals := make([]Meal, 0, len(items))
	for _, item := range items {
		meals = append(meals, mealFrom(item))
	}
	return meals
}

// NormalizeActivity maps one activity payload onto the canonical Activity.
func NormalizeActivity(raw []byte) Activity {
	return activityFrom(gjson.ParseBytes(raw))
}

// NormalizeActivities maps an activity list payload.
func NormalizeActivities(raw []byte) []Activity {
	items := Results(raw)
	acts := make([]Activity, 0, len(items))
	for _, item := range items {
		acts = append(acts, activityFrom(item))
	}
	return acts
}

// NormalizeWaterEntry maps one water intake payload.
func NormalizeWaterEntry(raw []byte) WaterEntry {
	return waterFrom(gjson.ParseBytes(raw))
}

// NormalizeWaterEntries maps a water intake list payload.
func NormalizeWaterEntries(raw []byte) []WaterEntry {
	items := Results(raw)
	entries := make([]WaterEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, waterFrom(item))
	}
	return entries
}

// NormalizeStepRecord maps a step count payload.
func NormalizeStepRecord(raw []byte) StepRecord {
	r := gjson.ParseBytes(raw)
	return StepRecord{
		ID:    pickString(r, "id", "pk"),
		Steps: int(pickFloat(r, "steps", "step_count", "total_steps")),
		Date:  pickString(r, "date", "date_logged", "day"),
	}
}

// NormalizeProfile maps the profile payload, tolerating both nested
// {"targets": {...}} and flat goal fields.
func NormalizeProfile(raw []byte) Profile {
	r := gjson.ParseBytes(raw)
	t := r
	if nested := r.Get("targets"); nested.Exists() {
		t = nested
	}
	return Profile{
		ID:          pickString(r, "id", "pk", "user_id"),
		Email:       pickString(r, "email"),
		DisplayName: pickString(r, "display_name", "name", "username"),
		Targets: Targets{
			CaloriesKcal:    pickFloat(t, "calories_kcal", "target_calories", "calorie_target", "goal_calories"),
			ProteinG:        pickFloat(t, "protein_g", "target_protein_g"),
			CarbsG:          pickFloat(t, "carbs_g", "target_carbs_g"),
			FatG:            pickFloat(t, "fat_g", "target_fat_g"),
			WaterL:          pickFloat(t, "water_l", "target_water_l", "water_target"),
			Steps:           int(pickFloat(t, "steps", "target_steps", "step_goal")),
			WorkoutsPerWeek: int(pickFloat(t, "workouts_per_week", "weekly_workouts")),
		},
	}
}

// ------------------------- internals -------------------------

func mealFrom(r gjson.Result) Meal {
	return Meal{
		ID:       pickString(r, "id", "pk"),
		Category: MealCategory(pickString(r, "category", "meal_type", "type")),
		Name:     pickString(r, "name", "food_name", "title"),
		Calories: pickFloat(r, "calories", "energy_kcal", "total_calories", "kcal"),
		ProteinG: pickFloat(r, "protein_g", "protein"),
		CarbsG:   pickFloat(r, "carbs_g", "carbs", "carbohydrates"),
		FatG:     pickFloat(r, "fat_g", "fat"),
		Date:     pickString(r, "date", "date_logged", "day"),
		LoggedAt: pickTime(r, "logged_at", "created_at", "timestamp"),
	}
}

func activityFrom(r gjson.Result) Activity {
	return Activity{
		ID:             pickString(r, "id", "pk"),
		Name:           pickString(r, "name", "activity_name", "title"),
		CaloriesBurned: pickFloat(r, "calories_burned", "burned_calories", "total_burned_calories", "burned"),
		DurationMin:    int(pickFloat(r, "duration_min", "duration_minutes", "duration")),
		Date:           pickString(r, "date", "date_logged", "day"),
		LoggedAt:       pickTime(r, "logged_at", "created_at", "timestamp"),
	}
}

func waterFrom(r gjson.Result) WaterEntry {
	return WaterEntry{
		ID:        pickString(r, "id", "pk"),
		AmountL:   pickFloat(r, "amount", "amount_l", "quantity", "liters"),
		Timestamp: pickTime(r, "timestamp", "logged_at", "created_at"),
	}
}

func pickString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v.String()
		}
	}
	return ""
}

func pickFloat(r gjson.Result, paths ...string) float64 {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v.Float()
		}
	}
	return 0
}

func pickTime(r gjson.Result, paths ...string) time.Time {
	for _, p := range paths {
		v := r.Get(p)
		if !v.Exists() {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, v.String()); err == nil {
			return ts
		}
	}
	return time.Time{}
}
