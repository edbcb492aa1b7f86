package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
	"github.com/aminat2005/viva-sync/internal/kvstore"
)

// tokensKey is where the credential pair lives in the side channel.
const tokensKey = "viva.auth.tokens"

// refreshTimeout is deliberately shorter than the request timeout so a
// dead auth endpoint fails fast instead of stalling every queued retry.
const refreshTimeout = 10 * time.Second

// Credentials is the persisted access/refresh token pair.
type Credentials struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenStore owns the credential pair. It persists every change to the
// durable side channel and coalesces concurrent refresh attempts into a
// single exchange: N requests that all hit a 401 before any refresh
// completes produce exactly one refresh call, whose outcome all N reuse.
type TokenStore struct {
	refreshURL string
	http       *http.Client
	store      kvstore.Store

	mu    sync.RWMutex
	creds Credentials

	sf singleflight.Group
}

// NewTokenStore builds a TokenStore bound to the given refresh endpoint,
// rehydrating any credential pair persisted from a previous session.
func NewTokenStore(store kvstore.Store, refreshURL string) *TokenStore {
	ts := &TokenStore{
		refreshURL: refreshURL,
		http:       &http.Client{Timeout: refreshTimeout},
		store:      store,
	}
	if raw, ok := store.Get(tokensKey); ok {
		if err := json.Unmarshal([]byte(raw), &ts.creds); err != nil {
			store.Delete(tokensKey)
		}
	}
	return ts
}

// Access returns the current access token, or "" when signed out.
func (ts *TokenStore) Access() string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.creds.Access
}

// Set replaces the credential pair and persists it.
func (ts *TokenStore) Set(c Credentials) {
	ts.mu.Lock()
	ts.creds = c
	ts.mu.Unlock()
	raw, _ := json.Marshal(c)
	ts.store.Set(tokensKey, string(raw))
}

// Clear wipes the credential pair from memory and the side channel.
func (ts *TokenStore) Clear() {
	ts.mu.Lock()
	ts.creds = Credentials{}
	ts.mu.Unlock()
	ts.store.Delete(tokensKey)
}

// EnsureFresh returns an access token that is newer than staleAccess.
// If a peer request already rotated the token, the current one is returned
// without a network call; otherwise a coalesced refresh exchange runs.
// On refresh failure all credentials are invalidated and the returned
// error classifies as KindAuthExpired, which callers must treat as a
// forced re-login.
func (ts *TokenStore) EnsureFresh(ctx context.Context, staleAccess string) (string, error) {
	if cur := ts.Access(); cur != "" && cur != staleAccess {
		return cur, nil
	}

	v, err, _ := ts.sf.Do("refresh", func() (any, error) {
		// The exchange serves every coalesced waiter, so it must not die
		// with the one caller that happened to trigger it. Detach from
		// that caller's cancellation; the 10s client timeout still bounds
		// the exchange.
		return ts.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refresh performs the actual token exchange. Only ever runs inside the
// singleflight group.
func (ts *TokenStore) refresh(ctx context.Context) (string, error) {
	ts.mu.RLock()
	refreshToken := ts.creds.Refresh
	ts.mu.RUnlock()

	if refreshToken == "" {
		ts.Clear()
		return "", authExpired(fmt.Errorf("no refresh token"))
	}

	body, _ := json.Marshal(map[string]string{"refresh": refreshToken})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.refreshURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.http.Do(req)
	if err != nil {
		// The exchange itself failing transiently still ends the session;
		// a half-refreshed state is worse than a clean re-login.
		ts.Clear()
		tokenRefreshTotal.WithLabelValues("error").Inc()
		return "", authExpired(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ts.Clear()
		tokenRefreshTotal.WithLabelValues("rejected").Inc()
		log.Warn().Int("status", resp.StatusCode).Msg("transport: refresh exchange rejected, session ended")
		return "", authExpired(fmt.Errorf("refresh exchange: HTTP %d", resp.StatusCode))
	}

	var pair Credentials
	if err := json.Unmarshal(raw, &pair); err != nil || pair.Access == "" {
		ts.Clear()
		tokenRefreshTotal.WithLabelValues("error").Inc()
		return "", authExpired(fmt.Errorf("refresh exchange: malformed response"))
	}
	if pair.Refresh == "" {
		// Endpoints that don't rotate the refresh token keep the old one.
		pair.Refresh = refreshToken
	}

	ts.Set(pair)
	tokenRefreshTotal.WithLabelValues("ok").Inc()
	log.Debug().Msg("transport: access token refreshed")
	return pair.Access, nil
}

func authExpired(cause error) *apierrors.Error {
	e := apierrors.New(apierrors.KindAuthExpired, "Your session has expired. Please sign in again.")
	e.Underlying = cause
	return e
}
