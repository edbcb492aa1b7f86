package api

import (
	"context"
	"net/http"

	"github.com/aminat2005/viva-sync/internal/types"
)

// GetSteps fetches the cumulative step count for date. A day with no
// record yet comes back as a zero-valued record, not an error.
func GetSteps(ctx context.Context, c Caller, date string) (*types.StepRecord, error) {
	if err := types.ValidateDate(date); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodGet, "/api/steps/?date="+date, nil)
	if err != nil {
		return nil, err
	}
	// The endpoint is a list filtered by date; the day's record is the
	// first element when present.
	if items := types.Results(body); len(items) > 0 {
		rec := types.NormalizeStepRecord([]byte(items[0].Raw))
		return &rec, nil
	}
	return &types.StepRecord{Date: date}, nil
}

// SetSteps stores the day's cumulative step count.
func SetSteps(ctx context.Context, c Caller, req types.UpdateStepsRequest) (*types.StepRecord, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodPost, "/api/steps/", req)
	if err != nil {
		return nil, err
	}
	rec := types.NormalizeStepRecord(body)
	return &rec, nil
}
