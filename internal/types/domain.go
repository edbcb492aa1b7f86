// Package types holds the canonical domain records the SDK operates on and
// the normalization layer that maps the backend's loosely-shaped payloads
// onto them. Internal logic never branches on which field name the server
// used; that happens exactly once, at the transport boundary.
package types

import "time"

// ------------------------------
// Core Domain Entities
// ------------------------------

// MealCategory is one of the four exclusive daily meal slots.
type MealCategory string

const (
	Breakfast MealCategory = "breakfast"
	Lunch     MealCategory = "lunch"
	Dinner    MealCategory = "dinner"
	Snack     MealCategory = "snack"
)

// MealCategories lists the four slots in display order.
var MealCategories = []MealCategory{Breakfast, Lunch, Dinner, Snack}

// Valid reports whether c names a known meal slot.
func (c MealCategory) Valid() bool {
	switch c {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// Meal is the canonical nutrition record.
type Meal struct {
	ID       string       `json:"id"`
	Category MealCategory `json:"category"`
	Name     string       `json:"name"`
	Calories float64      `json:"calories"` // kcal
	ProteinG float64      `json:"protein_g"`
	CarbsG   float64      `json:"carbs_g"`
	FatG     float64      `json:"fat_g"`
	Date     string       `json:"date"` // local date, YYYY-MM-DD
	LoggedAt time.Time    `json:"logged_at"`
}

// Activity is the canonical workout record.
type Activity struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CaloriesBurned float64   `json:"calories_burned"`
	DurationMin    int       `json:"duration_min"`
	Date           string    `json:"date"`
	LoggedAt       time.Time `json:"logged_at"`
}

// StepRecord is the day's cumulative step count.
type StepRecord struct {
	ID    string `json:"id"`
	Steps int    `json:"steps"`
	Date  string `json:"date"`
}

// WaterEntry is one recorded water intake increment.
type WaterEntry struct {
	ID        string    `json:"id"`
	AmountL   float64   `json:"amount_l"`
	Timestamp time.Time `json:"timestamp"`
}

// Targets carries the user's configured daily goals.
type Targets struct {
	CaloriesKcal    float64 `json:"calories_kcal"`
	ProteinG        float64 `json:"protein_g"`
	CarbsG          float64 `json:"carbs_g"`
	FatG            float64 `json:"fat_g"`
	WaterL          float64 `json:"water_l"`
	Steps           int     `json:"steps"`
	WorkoutsPerWeek int     `json:"workouts_per_week"`
}

// Profile is the authenticated user's account record.
type Profile struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name,omitempty"`
	Targets     Targets `json:"targets"`
}
