package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aminat2005/viva-sync/internal/types"
)

// TokenPair is the credential pair issued by the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges email/password for a token pair.
func Login(ctx context.Context, c Caller, req types.LoginRequest) (*TokenPair, error) {
	if err := types.ValidateStruct(req); err != nil {
		return nil, err
	}
	body, err := c.Call(ctx, http.MethodPost, "/api/auth/token/", req)
	if err != nil {
		return nil, err
	}
	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, fmt.Errorf("login: decode response: %w", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		return nil, fmt.Errorf("login: token endpoint returned incomplete pair")
	}
	return &pair, nil
}
