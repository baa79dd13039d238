package usuarios

// SessionEndReason says why a session stopped being valid.
type SessionEndReason uint8

const (
	// EndReasonLogout is an explicit, user-initiated logout.
	EndReasonLogout SessionEndReason = iota
	// EndReasonRefreshFailed means the refresh token was rejected or a
	// refresh could not complete; re-authentication is required.
	EndReasonRefreshFailed
	// EndReasonIdentityLost means the backend no longer recognizes the
	// stored credentials when fetching the current user.
	EndReasonIdentityLost
)

// String implements fmt.Stringer.
func (r SessionEndReason) String() string {
	switch r {
	case EndReasonLogout:
		return "logout"
	case EndReasonRefreshFailed:
		return "refresh_failed"
	case EndReasonIdentityLost:
		return "identity_lost"
	default:
		return "unknown"
	}
}

// SessionEndEvent is delivered once per session termination. Cause is nil
// for user-initiated logout.
type SessionEndEvent struct {
	Reason SessionEndReason
	Cause  error
}

// SessionListener receives session termination events. The client calls it
// synchronously from whichever goroutine ended the session; listeners that
// do slow work should hand off. The UI layer typically reacts by routing
// to its login screen; the client itself never navigates.
type SessionListener interface {
	SessionEnded(SessionEndEvent)
}

// SessionListenerFunc adapts a function to the SessionListener interface.
type SessionListenerFunc func(SessionEndEvent)

// SessionEnded implements SessionListener.
func (f SessionListenerFunc) SessionEnded(ev SessionEndEvent) { f(ev) }
