package usuarios

import (
	"context"
	"sync"

	"github.com/nikoidev/usuarios-go/tokenstore"
	"github.com/nikoidev/usuarios-go/transport"
)

// Client is the single source of truth for "who is logged in" and the
// typed gateway to the backend's REST surface. Build one through
// [Builder.Build]; it is safe for concurrent use afterwards.
//
// A Client starts in the loading state with no user. Call [Client.Start]
// once to restore a persisted session, or [Client.Login] directly.
type Client struct {
	config    Config
	logger    Logger
	metrics   *Metrics
	tokens    tokenstore.Store
	transport *transport.Client
	coord     *refreshCoordinator
	scheduler *renewalScheduler
	listener  SessionListener

	mu      sync.RWMutex
	user    *User
	loading bool
	active  bool
	closed  bool
}

// CurrentUser returns a copy of the signed-in identity, or nil when no
// session is established.
func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Loading reports whether the initial session restore is still pending.
func (c *Client) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// RenewalState exposes the proactive renewal scheduler's state.
func (c *Client) RenewalState() SchedulerState {
	return c.scheduler.State()
}

// MetricsSnapshot copies the current counter values.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// Close releases the client's timers. It does not log out: stored tokens
// stay valid so the session can be restored by a future client.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.scheduler.stop()
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) finishLoading() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// endSession tears down local session state: scheduler disarmed, token
// store cleared, identity dropped. The listener is notified once per
// established session, no matter how many paths race into teardown.
func (c *Client) endSession(ctx context.Context, reason SessionEndReason, cause error) {
	c.scheduler.stop()
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Error("clearing token store", "error", err)
	}
	c.mu.Lock()
	wasActive := c.active
	c.active = false
	c.user = nil
	c.mu.Unlock()
	if !wasActive {
		return
	}
	c.metrics.inc(MetricSessionEnded)
	c.logger.Info("session ended", "reason", reason.String())
	if c.listener != nil {
		c.listener.SessionEnded(SessionEndEvent{Reason: reason, Cause: cause})
	}
}
