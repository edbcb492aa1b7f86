// Package transport wraps raw HTTP calls with authentication-header
// injection, refresh-on-401, bounded retry and error normalization.
// Nothing above this package ever sees a raw status code.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
	"github.com/aminat2005/viva-sync/internal/retry"
)

const (
	requestIDHeader = "X-Request-Id"
	attemptHeader   = "X-Request-Attempt"

	// DefaultTimeout bounds one HTTP attempt end to end.
	DefaultTimeout = 30 * time.Second
)

// Client is the resilient transport. Every Call is stamped with the
// current access token, retried per the retry policy, refreshed once on
// 401, and classified before the error reaches calling code.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  *TokenStore
	Retry   retry.Options
}

// New wires a Client around a copy of httpClient, installing the auth
// round-tripper on top of whatever transport is already configured (so a
// debug dumper underneath still sees final headers). The passed client is
// left untouched; callers may share it elsewhere.
func New(baseURL string, tokens *TokenStore, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	} else {
		clone := *httpClient
		httpClient = &clone
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = &authTransport{base: base, tokens: tokens}
	return &Client{BaseURL: baseURL, HTTP: httpClient, Tokens: tokens}
}

// Call performs method path with in as the JSON body (nil for none) and
// returns the raw response body of a 2xx outcome. Non-2xx outcomes come
// back as classified errors; retryable ones are retried per c.Retry
// before surfacing.
func (c *Client) Call(ctx context.Context, method, path string, in any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return nil, fmt.Errorf("%s %s: marshal body: %w", method, path, err)
		}
	}

	requestID := uuid.NewString()
	url := c.BaseURL + path

	var body []byte
	attempt := 0
	err := retry.Do(ctx, func(ctx context.Context) error {
		attempt++
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set(requestIDHeader, requestID)
		req.Header.Set(attemptHeader, strconv.Itoa(attempt))

		requestsTotal.WithLabelValues(method).Inc()
		if attempt > 1 {
			retriesTotal.WithLabelValues(method).Inc()
			log.Debug().Str("path", path).Str("request_id", requestID).Int("attempt", attempt).Msg("transport: retrying request")
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			// A failed refresh surfaces through the round-tripper wrapped
			// in a *url.Error; keep its classification.
			var classified *apierrors.Error
			if stderrors.As(err, &classified) {
				return classified
			}
			return apierrors.FromNetwork(fmt.Sprintf("%s %s", method, path), err)
		}
		defer func() { _ = resp.Body.Close() }()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return apierrors.FromNetwork(fmt.Sprintf("%s %s", method, path), err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return apierrors.Classify(resp.StatusCode, raw, fmt.Errorf("%s %s: HTTP %d", method, path, resp.StatusCode))
		}
		body = raw
		return nil
	}, c.Retry)

	if err != nil {
		failuresTotal.WithLabelValues(apierrors.KindOf(err).String()).Inc()
		return nil, err
	}
	return body, nil
}

// CallJSON is Call plus JSON-decoding of the response into out.
func (c *Client) CallJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := c.Call(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// --------------------------------------------------------------------
// auth round-tripper
// --------------------------------------------------------------------

// authTransport stamps the current access token on every outgoing request
// and transparently handles one refresh-and-replay cycle on 401.
type authTransport struct {
	base   http.RoundTripper
	tokens *TokenStore
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	access := t.tokens.Access()

	cloned := req.Clone(req.Context())
	if access != "" {
		cloned.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := t.base.RoundTrip(cloned)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || access == "" {
		return resp, nil
	}

	// 401 with a token we believed valid: join the (coalesced) refresh
	// and replay the original request exactly once with the new token.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	fresh, rerr := t.tokens.EnsureFresh(req.Context(), access)
	if rerr != nil {
		return nil, rerr
	}

	replay := req.Clone(req.Context())
	replay.Header.Set("Authorization", "Bearer "+fresh)
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return nil, berr
		}
		replay.Body = body
	}
	return t.base.RoundTrip(replay)
}
