package usuarios

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikoidev/usuarios-go/tokenstore"
)

const mePath = "/api/auth/me"

// Login authenticates against the backend, stores the issued token pair,
// derives the user identity, and arms proactive renewal. On any failure no
// session state survives the call.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	grant, err := c.transport.Login(ctx, username, password)
	if err != nil {
		c.metrics.inc(MetricLoginFailure)
		return nil, mapTransportErr(err)
	}
	err = c.tokens.Save(ctx, tokenstore.TokenPair{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("persist tokens: %w", err)
	}

	user, err := c.fetchUser(ctx)
	if err != nil {
		// Roll back: a login that cannot resolve an identity is a failure,
		// not a half-open session.
		if cerr := c.tokens.Clear(ctx); cerr != nil {
			c.logger.Error("rolling back tokens after failed identity fetch", "error", cerr)
		}
		c.metrics.inc(MetricLoginFailure)
		return nil, err
	}

	c.mu.Lock()
	c.user = user
	c.active = true
	c.loading = false
	c.mu.Unlock()

	c.scheduler.schedule(grant.AccessToken)
	c.metrics.inc(MetricLoginSuccess)
	c.logger.Info("login succeeded", "username", user.Username)
	return user, nil
}

// Logout revokes the refresh token server-side on a best-effort basis and
// always clears local state. It never leaves a session behind: a dead
// backend cannot keep a user logged in.
func (c *Client) Logout(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	pair, err := c.tokens.Load(ctx)
	if err == nil && pair.RefreshToken != "" {
		if serr := c.transport.Logout(ctx, pair.RefreshToken); serr != nil {
			c.logger.Warn("server-side logout failed, clearing local session anyway", "error", serr)
		}
	}
	c.metrics.inc(MetricLogout)
	c.endSession(ctx, EndReasonLogout, nil)
	return nil
}

// RefreshUser re-derives the current identity from stored credentials.
// Failures are not surfaced: a rejected or unreachable identity degrades
// to logged-out, which is the behavior the startup path wants.
func (c *Client) RefreshUser(ctx context.Context) *User {
	defer c.finishLoading()
	pair, err := c.tokens.Load(ctx)
	if err != nil || pair.AccessToken == "" {
		return nil
	}
	user, err := c.fetchUser(ctx)
	if err != nil {
		c.logger.Warn("fetching current user failed", "error", err)
		c.endSession(ctx, EndReasonIdentityLost, err)
		return nil
	}
	c.mu.Lock()
	c.user = user
	c.active = true
	c.mu.Unlock()
	return user
}

// Start restores a persisted session and resolves the initial loading
// state. A backend that is merely unreachable is retried with exponential
// backoff; one that rejects the stored credentials is not. With no stored
// tokens Start returns immediately without touching the network.
func (c *Client) Start(ctx context.Context) {
	defer c.finishLoading()
	pair, err := c.tokens.Load(ctx)
	if err != nil || pair.AccessToken == "" {
		return
	}

	user, err := c.fetchUserRetrying(ctx)
	if err != nil {
		c.logger.Warn("session restore failed", "error", err)
		c.endSession(ctx, EndReasonIdentityLost, err)
		return
	}

	c.mu.Lock()
	c.user = user
	c.active = true
	c.mu.Unlock()

	// The fetch may have gone through a refresh; schedule against whatever
	// access token is stored now.
	if cur, lerr := c.tokens.Load(ctx); lerr == nil {
		pair = cur
	}
	c.scheduler.schedule(pair.AccessToken)
	c.logger.Info("session restored", "username", user.Username)
}

func (c *Client) fetchUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.transport.Get(ctx, mePath, &u); err != nil {
		return nil, mapTransportErr(err)
	}
	return &u, nil
}

func (c *Client) fetchUserRetrying(ctx context.Context) (*User, error) {
	if !c.config.Startup.RetryEnabled {
		return c.fetchUser(ctx)
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.Startup.InitialInterval
	bo.MaxElapsedTime = c.config.Startup.MaxElapsedTime

	var user *User
	op := func() error {
		u, err := c.fetchUser(ctx)
		if err != nil {
			if errors.Is(err, ErrNetworkFailure) {
				return err
			}
			// Definitive rejection: the session is invalid, not delayed.
			return backoff.Permanent(err)
		}
		user = u
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return user, nil
}
