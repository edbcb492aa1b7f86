package vivasync

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/aminat2005/viva-sync/internal/api"
	"github.com/aminat2005/viva-sync/internal/types"
)

// profileKey caches the last fetched profile in the side channel.
const profileKey = "viva.profile"

// Profile returns the authenticated user's profile and targets. The
// server copy is preferred; when it is unreachable the last cached copy
// is served so target-dependent views keep working offline.
func (c *Client) Profile(ctx context.Context) (*UserProfile, error) {
	prof, err := api.GetProfile(ctx, c.transport)
	if err == nil {
		c.cacheProfile(prof)
		return prof, nil
	}

	if cached, ok := c.cachedProfile(); ok {
		log.Debug().Err(err).Msg("vivasync: serving cached profile")
		return cached, nil
	}
	return nil, c.surface(err)
}

// UpdateTargets changes the user's daily goals and refreshes the local
// water target and profile cache from the server's canonical answer.
func (c *Client) UpdateTargets(ctx context.Context, req UpdateTargetsRequest) (*UserProfile, error) {
	prof, err := api.UpdateTargets(ctx, c.transport, req)
	if err != nil {
		return nil, c.surface(err)
	}
	c.cacheProfile(prof)
	if prof.Targets.WaterL > 0 {
		c.water.SetTarget(prof.Targets.WaterL)
	}
	return prof, nil
}

func (c *Client) cacheProfile(p *types.Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.store.Set(profileKey, string(raw))
}

func (c *Client) cachedProfile() (*types.Profile, bool) {
	raw, ok := c.store.Get(profileKey)
	if !ok {
		return nil, false
	}
	var p types.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		c.store.Delete(profileKey)
		return nil, false
	}
	return &p, true
}
