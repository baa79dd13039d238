// Package transport is the HTTP layer of the Usuarios client. It attaches
// bearer credentials, maps backend failures onto a small error set, and
// replays a request at most once after the refresh hook produces a fresh
// access token. It knows nothing about sessions or token storage.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// TokenSource supplies the current access token for outgoing requests.
// Returning false sends the request without an Authorization header.
type TokenSource func(ctx context.Context) (string, bool)

// RefreshHook is invoked at most once per request when the backend rejects
// the presented access token. It returns a fresh token to replay with.
type RefreshHook func(ctx context.Context) (string, error)

// Config carries the HTTP-level settings of the client.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	UserAgent        string
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
}

// Client is a thin wrapper over resty. It is safe for concurrent use once
// the hooks are set.
type Client struct {
	http    *resty.Client
	source  TokenSource
	refresh RefreshHook
}

// New builds a Client. Hooks are attached afterwards with SetTokenSource
// and SetRefreshHook; until then requests go out unauthenticated.
func New(cfg Config) *Client {
	hc := resty.New()
	hc.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	hc.SetTimeout(cfg.Timeout)
	hc.SetHeader("User-Agent", cfg.UserAgent)
	if cfg.RetryCount > 0 {
		// Retries transport-level failures only; HTTP error statuses are
		// handled by the caller-visible error mapping.
		hc.SetRetryCount(cfg.RetryCount)
		hc.SetRetryWaitTime(cfg.RetryWaitTime)
		hc.SetRetryMaxWaitTime(cfg.RetryMaxWaitTime)
	}
	return &Client{http: hc}
}

// SetTokenSource installs the access token supplier.
func (c *Client) SetTokenSource(src TokenSource) { c.source = src }

// SetRefreshHook installs the expired-token recovery hook.
func (c *Client) SetRefreshHook(h RefreshHook) { c.refresh = h }

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, resty.MethodGet, path, nil, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, resty.MethodPost, path, body, out)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, resty.MethodPut, path, body, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, resty.MethodDelete, path, nil, nil)
}

// do sends the request once, and at most once more after a successful
// refresh. The replay marker is structural: the reissue sits on a
// straight-line path that cannot loop.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token := ""
	if c.source != nil {
		token, _ = c.source(ctx)
	}
	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		if c.refresh == nil {
			return fmt.Errorf("%w: %s", ErrAuthExpired, detail(resp))
		}
		fresh, rerr := c.refresh(ctx)
		if rerr != nil {
			// Recovery failed; surface the original authentication error.
			return fmt.Errorf("%w: %s", ErrAuthExpired, detail(resp))
		}
		resp, err = c.send(ctx, method, path, body, fresh)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if resp.StatusCode() == http.StatusUnauthorized {
			// Rejected even with a fresh token: terminal, no third try.
			return fmt.Errorf("%w: %s", ErrAuthExpired, detail(resp))
		}
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return decode(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, body any, token string) (*resty.Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}
	return req.Execute(method, path)
}

func decode(resp *resty.Response, out any) error {
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
