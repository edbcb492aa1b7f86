package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aminat2005/viva-sync/internal/types"
)

// ListActivities retrieves the workouts logged on date.
func ListActivities(ctx context.Context, c Caller, date string) ([]types.Activity, error) {
	if err := types.ValidateDate(date); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodGet, "/api/activities/?date="+date, nil)
	if err != nil {
		return nil, err
	}
	return types.NormalizeActivities(body), nil
}

// CreateActivity logs one workout and returns the canonical record.
func CreateActivity(ctx context.Context, c Caller, req types.CreateActivityRequest) (*types.Activity, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodPost, "/api/activities/", req)
	if err != nil {
		return nil, err
	}
	a := types.NormalizeActivity(body)
	return &a, nil
}

// DeleteActivity removes a logged workout by server id.
func DeleteActivity(ctx context.Context, c Caller, activityID string) error {
	if err := types.ValidateIDPresent(activityID, "activityId"); err != nil {
		return err
	}
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/api/activities/%s/", activityID), nil)
	return err
}
