package usuarios

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SchedulerState is the lifecycle state of the proactive renewal timer.
type SchedulerState uint8

const (
	// SchedulerIdle means no renewal is pending (no session, or disabled).
	SchedulerIdle SchedulerState = iota
	// SchedulerScheduled means a one-shot renewal is armed.
	SchedulerScheduled
	// SchedulerFiring means a renewal refresh is executing right now.
	SchedulerFiring
)

// String implements fmt.Stringer.
func (s SchedulerState) String() string {
	switch s {
	case SchedulerIdle:
		return "idle"
	case SchedulerScheduled:
		return "scheduled"
	case SchedulerFiring:
		return "firing"
	default:
		return "unknown"
	}
}

// Renewals never fire sooner than this, so a token already inside its
// safety margin does not busy-loop the refresh endpoint.
const minRenewalDelay = 50 * time.Millisecond

// renewalScheduler renews the access token shortly before its known
// expiry. Each successful refresh arms the next one-shot; logout or a
// failed renewal disarms it. The generation counter invalidates timers
// that fire after a stop or reschedule.
type renewalScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	state SchedulerState
	gen   uint64

	enabled     bool
	margin      time.Duration
	accessTTL   time.Duration
	fireTimeout time.Duration

	refresh func(ctx context.Context) (string, error)
	onEnd   func(ctx context.Context, cause error)
	metrics *Metrics
	logger  Logger
}

// schedule arms the renewal for the given access token, replacing any
// pending one.
func (s *renewalScheduler) schedule(accessToken string) {
	if !s.enabled {
		return
	}
	delay := s.renewalDelay(accessToken)
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.state = SchedulerScheduled
	s.timer = time.AfterFunc(delay, func() { s.fire(gen) })
	s.mu.Unlock()
	s.logger.Debug("renewal scheduled", "delay", delay)
}

// stop disarms the scheduler. Safe to call in any state.
func (s *renewalScheduler) stop() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.state = SchedulerIdle
	s.mu.Unlock()
}

// State returns the current lifecycle state.
func (s *renewalScheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *renewalScheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		// Cancelled or rescheduled while this timer was in flight.
		s.mu.Unlock()
		return
	}
	s.state = SchedulerFiring
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.fireTimeout)
	defer cancel()

	access, err := s.refresh(ctx)
	if err != nil {
		s.logger.Warn("proactive renewal failed", "error", err)
		s.stop()
		if s.onEnd != nil {
			s.onEnd(ctx, err)
		}
		return
	}
	s.metrics.inc(MetricRenewalFired)
	s.schedule(access)
}

// renewalDelay computes time-to-renewal for an access token. The backend
// issues JWTs, so the unverified exp claim gives the real deadline; opaque
// or unparsable tokens fall back to the configured lifetime. The claim is
// never trusted for anything but timing.
func (s *renewalScheduler) renewalDelay(accessToken string) time.Duration {
	lifetime := s.accessTTL
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err == nil && claims.ExpiresAt != nil {
		lifetime = time.Until(claims.ExpiresAt.Time)
	}
	delay := lifetime - s.margin
	if delay < minRenewalDelay {
		delay = minRenewalDelay
	}
	return delay
}
