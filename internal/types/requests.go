package types

// ------------------------------
// Request Types
// ------------------------------

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// CreateMealRequest logs one meal into a daily slot.
type CreateMealRequest struct {
	Category MealCategory `json:"category" validate:"required,oneof=breakfast lunch dinner snack"`
	Name     string       `json:"name" validate:"required"`
	Calories float64      `json:"energy_kcal" validate:"gte=0"`
	ProteinG float64      `json:"protein_g" validate:"gte=0"`
	CarbsG   float64      `json:"carbs_g" validate:"gte=0"`
	FatG     float64      `json:"fat_g" validate:"gte=0"`
	Date     string       `json:"date_logged" validate:"required,datelike"`
}

// CreateActivityRequest logs one workout.
type CreateActivityRequest struct {
	Name           string  `json:"name" validate:"required"`
	CaloriesBurned float64 `json:"calories_burned" validate:"gte=0"`
	DurationMin    int     `json:"duration_min" validate:"gte=0"`
	Date           string  `json:"date_logged" validate:"required,datelike"`
}

// CreateWaterRequest records one water intake increment.
type CreateWaterRequest struct {
	AmountL float64 `json:"amount" validate:"gt=0"`
	Date    string  `json:"date_logged" validate:"required,datelike"`
}

// UpdateStepsRequest sets the day's cumulative step count.
type UpdateStepsRequest struct {
	Steps int    `json:"steps" validate:"gte=0"`
	Date  string `json:"date_logged" validate:"required,datelike"`
}

// UpdateTargetsRequest changes the user's configured daily goals.
type UpdateTargetsRequest struct {
	CaloriesKcal float64 `json:"calories_kcal" validate:"gte=0"`
	WaterL       float64 `json:"water_l" validate:"gte=0"`
	Steps        int     `json:"steps" validate:"gte=0"`
}
