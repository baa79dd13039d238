package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrUnavailable covers dial errors, timeouts, and undecodable
	// responses, anything below the HTTP status layer.
	ErrUnavailable = errors.New("transport: backend unavailable")
	// ErrAuthExpired is an HTTP 401 on an authenticated call that the
	// replay path did not recover.
	ErrAuthExpired = errors.New("transport: access token rejected")
	// ErrInvalidCredentials is an HTTP 401 from the login endpoint.
	ErrInvalidCredentials = errors.New("transport: credentials rejected")
	// ErrRefreshRejected is an HTTP 401 from the refresh endpoint; the
	// refresh token is invalid, expired, or revoked.
	ErrRefreshRejected = errors.New("transport: refresh token rejected")
)

// APIError is any non-401 HTTP error from the backend, carrying the
// decoded FastAPI detail message when one is present.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("transport: backend returned %d: %s", e.Status, e.Detail)
}

func apiError(resp *resty.Response) error {
	return &APIError{Status: resp.StatusCode(), Detail: detail(resp)}
}

// detail extracts the backend's {"detail": "..."} message. Validation
// errors carry structured detail; those fall back to the raw body.
func detail(resp *resty.Response) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && len(body.Detail) > 0 {
		var msg string
		if json.Unmarshal(body.Detail, &msg) == nil {
			return msg
		}
		return string(body.Detail)
	}
	if len(resp.Body()) > 0 {
		const max = 256
		raw := string(resp.Body())
		if len(raw) > max {
			raw = raw[:max]
		}
		return raw
	}
	return http.StatusText(resp.StatusCode())
}
