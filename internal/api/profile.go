package api

import (
	"context"
	"net/http"

	"github.com/aminat2005/viva-sync/internal/types"
)

// GetProfile fetches the authenticated user's profile and targets.
func GetProfile(ctx context.Context, c Caller) (*types.Profile, error) {
	body, err := c.Call(ctx, http.MethodGet, "/api/profile/", nil)
	if err != nil {
		return nil, err
	}
	p := types.NormalizeProfile(body)
	return &p, nil
}

// UpdateTargets changes the user's configured daily goals.
func UpdateTargets(ctx context.Context, c Caller, req types.UpdateTargetsRequest) (*types.Profile, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodPatch, "/api/profile/", req)
	if err != nil {
		return nil, err
	}
	p := types.NormalizeProfile(body)
	return &p, nil
}
