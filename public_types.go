package vivasync

import (
	"github.com/aminat2005/viva-sync/internal/kvstore"
	"github.com/aminat2005/viva-sync/internal/ledger"
	"github.com/aminat2005/viva-sync/internal/summary"
	"github.com/aminat2005/viva-sync/internal/types"
	"github.com/aminat2005/viva-sync/internal/water"
)

// Public type aliases so SDK consumers can import only this package.
type (
	// Requests
	LoginRequest          = types.LoginRequest
	CreateMealRequest     = types.CreateMealRequest
	CreateActivityRequest = types.CreateActivityRequest
	CreateWaterRequest    = types.CreateWaterRequest
	UpdateStepsRequest    = types.UpdateStepsRequest
	UpdateTargetsRequest  = types.UpdateTargetsRequest

	// Domain entities
	MealCategory = types.MealCategory
	Meal         = types.Meal
	Activity     = types.Activity
	StepRecord   = types.StepRecord
	WaterEntry   = types.WaterEntry
	Targets      = types.Targets
	UserProfile  = types.Profile

	// Derived and stateful views
	Summary      = summary.Summary
	MealSlot     = ledger.Slot
	WaterHistory = water.HistoryEntry

	// Store is the durable local side channel; supply your own via
	// WithStore to integrate platform storage.
	Store = kvstore.Store
)

// Meal slot names.
const (
	Breakfast = types.Breakfast
	Lunch     = types.Lunch
	Dinner    = types.Dinner
	Snack     = types.Snack
)

// MealCategories lists the four slots in display order.
var MealCategories = types.MealCategories

// Errors re-exported in errors.go
