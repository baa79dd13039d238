package usuarios

import "sync/atomic"

// MetricID identifies one client-side counter.
type MetricID uint8

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected or failed logins.
	MetricLoginFailure
	// MetricRefreshSuccess counts refresh calls that produced a new pair.
	MetricRefreshSuccess
	// MetricRefreshFailure counts refresh calls that ended the session.
	MetricRefreshFailure
	// MetricRefreshCoalesced counts callers that piggybacked on an
	// in-flight refresh instead of issuing their own.
	MetricRefreshCoalesced
	// MetricRequestReplayed counts requests that hit a 401 and entered the
	// refresh-then-reissue path.
	MetricRequestReplayed
	// MetricRenewalFired counts proactive renewals that fired.
	MetricRenewalFired
	// MetricLogout counts explicit logouts.
	MetricLogout
	// MetricSessionEnded counts session terminations of any reason.
	MetricSessionEnded

	metricCount
)

// String implements fmt.Stringer.
func (id MetricID) String() string {
	switch id {
	case MetricLoginSuccess:
		return "login_success"
	case MetricLoginFailure:
		return "login_failure"
	case MetricRefreshSuccess:
		return "refresh_success"
	case MetricRefreshFailure:
		return "refresh_failure"
	case MetricRefreshCoalesced:
		return "refresh_coalesced"
	case MetricRequestReplayed:
		return "request_replayed"
	case MetricRenewalFired:
		return "renewal_fired"
	case MetricLogout:
		return "logout"
	case MetricSessionEnded:
		return "session_ended"
	default:
		return "unknown"
	}
}

// Metrics is a fixed set of atomic counters. A nil or disabled Metrics is
// safe to use and records nothing.
type Metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

// NewMetrics builds the counter set for the given configuration.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

func (m *Metrics) inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot maps each counter to its value at snapshot time.
type MetricsSnapshot map[MetricID]uint64

// Snapshot copies the current counter values. Disabled metrics snapshot
// as an empty map.
func (m *Metrics) Snapshot() MetricsSnapshot {
	out := MetricsSnapshot{}
	if m == nil || !m.enabled {
		return out
	}
	for id := MetricID(0); id < metricCount; id++ {
		out[id] = m.counters[id].Load()
	}
	return out
}
