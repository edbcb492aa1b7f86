package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aminat2005/viva-sync/internal/types"
)

// ListWater retrieves the water intake entries recorded on date.
func ListWater(ctx context.Context, c Caller, date string) ([]types.WaterEntry, error) {
	if err := types.ValidateDate(date); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodGet, "/api/water/?date="+date, nil)
	if err != nil {
		return nil, err
	}
	return types.NormalizeWaterEntries(body), nil
}

// CreateWater records one intake increment and returns the canonical
// entry (carrying the server id the client needs for later deletion).
func CreateWater(ctx context.Context, c Caller, req types.CreateWaterRequest) (*types.WaterEntry, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodPost, "/api/water/", req)
	if err != nil {
		return nil, err
	}
	e := types.NormalizeWaterEntry(body)
	return &e, nil
}

// DeleteWater removes an intake entry by server id.
func DeleteWater(ctx context.Context, c Caller, entryID string) error {
	if err := types.ValidateIDPresent(entryID, "entryId"); err != nil {
		return err
	}
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/api/water/%s/", entryID), nil)
	return err
}
