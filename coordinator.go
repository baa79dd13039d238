package usuarios

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nikoidev/usuarios-go/tokenstore"
	"github.com/nikoidev/usuarios-go/transport"
)

type refreshOutcome struct {
	access string
	err    error
}

// refreshCoordinator serializes refresh operations: however many callers
// race against an expired access token, the backend sees one refresh call.
// Callers that arrive while a refresh is in flight park on a buffered
// channel and are settled in arrival order with the shared outcome.
//
// The check-and-set on inflight is atomic under mu, so a second refresh
// can never start while one is pending.
type refreshCoordinator struct {
	mu       sync.Mutex
	inflight bool
	waiters  []chan refreshOutcome

	tokens    tokenstore.Store
	transport *transport.Client
	metrics   *Metrics
	logger    Logger

	// onFailure ends the session; set by the Client. The coordinator has
	// already cleared the token store when it runs.
	onFailure func(ctx context.Context, cause error)
}

// ensureFreshToken returns a currently valid access token, refreshing at
// most once across all concurrent callers.
func (rc *refreshCoordinator) ensureFreshToken(ctx context.Context) (string, error) {
	rc.mu.Lock()
	if rc.inflight {
		ch := make(chan refreshOutcome, 1)
		rc.waiters = append(rc.waiters, ch)
		rc.mu.Unlock()
		rc.metrics.inc(MetricRefreshCoalesced)
		select {
		case out := <-ch:
			return out.access, out.err
		case <-ctx.Done():
			// The refresh keeps running for the other waiters; only this
			// caller gives up.
			return "", ctx.Err()
		}
	}
	rc.inflight = true
	rc.mu.Unlock()

	access, err := rc.refresh(ctx)
	rc.settle(refreshOutcome{access: access, err: err})
	return access, err
}

func (rc *refreshCoordinator) refresh(ctx context.Context) (string, error) {
	pair, err := rc.tokens.Load(ctx)
	if err != nil && !errors.Is(err, tokenstore.ErrNotFound) {
		return "", err
	}
	if pair.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	grant, err := rc.transport.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		failure := mapTransportErr(err)
		if !errors.Is(failure, ErrRefreshFailed) && !errors.Is(failure, ErrNetworkFailure) {
			failure = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		}
		rc.metrics.inc(MetricRefreshFailure)
		rc.logger.Warn("token refresh failed", "error", err)
		if cerr := rc.tokens.Clear(ctx); cerr != nil {
			rc.logger.Error("clearing token store after failed refresh", "error", cerr)
		}
		if rc.onFailure != nil {
			rc.onFailure(ctx, failure)
		}
		return "", failure
	}

	err = rc.tokens.Save(ctx, tokenstore.TokenPair{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
	})
	if err != nil {
		return "", fmt.Errorf("persist refreshed tokens: %w", err)
	}
	rc.metrics.inc(MetricRefreshSuccess)
	rc.logger.Debug("access token refreshed")
	return grant.AccessToken, nil
}

// settle releases every parked waiter with the shared outcome, in the
// order they enqueued, and reopens the coordinator for the next cycle.
func (rc *refreshCoordinator) settle(out refreshOutcome) {
	rc.mu.Lock()
	waiters := rc.waiters
	rc.waiters = nil
	rc.inflight = false
	rc.mu.Unlock()
	for _, ch := range waiters {
		ch <- out
	}
}
