package usuarios

import (
	"errors"
	"fmt"

	"github.com/nikoidev/usuarios-go/transport"
)

var (
	// ErrInvalidCredentials is returned by Login when the backend rejects
	// the username/password pair. No session state is changed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAuthExpired is returned when the backend rejects the access token
	// and the single permitted replay did not recover the request.
	ErrAuthExpired = errors.New("authentication expired")
	// ErrRefreshFailed is returned when the refresh token is invalid,
	// expired, or revoked. It is terminal: the session has ended.
	ErrRefreshFailed = errors.New("refresh rejected")
	// ErrNoRefreshToken is returned when a refresh is attempted with no
	// refresh token stored. No network call is made.
	ErrNoRefreshToken = errors.New("no refresh token stored")
	// ErrNetworkFailure is returned for transport-level failures (dial,
	// timeout, malformed response) on any backend call.
	ErrNetworkFailure = errors.New("backend unreachable")
	// ErrValidation is returned for requests rejected locally before any
	// network call, e.g. an empty password or a too-short replacement.
	ErrValidation = errors.New("validation failed")
	// ErrNotAuthenticated is returned by calls that require a session when
	// none is established.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrClientClosed is returned by operations on a closed Client.
	ErrClientClosed = errors.New("client closed")
)

// mapTransportErr lifts transport-layer sentinels into the package
// taxonomy. Both sentinels stay in the chain, so callers can match either.
func mapTransportErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, transport.ErrAuthExpired):
		return fmt.Errorf("%w: %w", ErrAuthExpired, err)
	case errors.Is(err, transport.ErrInvalidCredentials):
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	case errors.Is(err, transport.ErrRefreshRejected):
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	case errors.Is(err, transport.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	default:
		return err
	}
}
