package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aminat2005/viva-sync/internal/types"
)

// ListMeals retrieves the meals logged on date.
func ListMeals(ctx context.Context, c Caller, date string) ([]types.Meal, error) {
	if err := types.ValidateDate(date); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodGet, "/api/meals/?date="+date, nil)
	if err != nil {
		return nil, err
	}
	return types.NormalizeMeals(body), nil
}

// CreateMeal logs one meal and returns the server's canonical record.
func CreateMeal(ctx context.Context, c Caller, req types.CreateMealRequest) (*types.Meal, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodPost, "/api/meals/", req)
	if err != nil {
		return nil, err
	}
	m := types.NormalizeMeal(body)
	return &m, nil
}

// DeleteMeal removes a logged meal by server id.
func DeleteMeal(ctx context.Context, c Caller, mealID string) error {
	if err := types.ValidateIDPresent(mealID, "mealId"); err != nil {
		return err
	}
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/api/meals/%s/", mealID), nil)
	return err
}
