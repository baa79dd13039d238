package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	loginPath   = "/api/auth/login"
	refreshPath = "/api/auth/refresh"
	logoutPath  = "/api/auth/logout"
)

// TokenGrant is the token response of the login and refresh endpoints.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a token pair. The endpoint takes
// form-encoded fields (OAuth2 password flow), not JSON. A 401 maps to
// ErrInvalidCredentials; the replay pipeline is never involved here.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenGrant, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
		}).
		Post(loginPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, detail(resp))
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return decodeGrant(resp)
}

// Refresh exchanges a refresh token for a new pair. The backend rotates
// the refresh token, so the returned pair fully replaces the old one.
// Never routed through the replay pipeline: a 401 here is final.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetHeader("Content-Type", "application/json").
		SetBody(refreshRequest{RefreshToken: refreshToken}).
		Post(refreshPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrRefreshRejected, detail(resp))
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return decodeGrant(resp)
}

// Logout asks the backend to revoke the refresh token. Callers treat
// failures as advisory; local state is cleared regardless.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	token := ""
	if c.source != nil {
		token, _ = c.source(ctx)
	}
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetHeader("Content-Type", "application/json").
		SetBody(refreshRequest{RefreshToken: refreshToken})
	if token != "" {
		req.SetAuthToken(token)
	}
	resp, err := req.Post(logoutPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	var out messageResponse
	_ = json.Unmarshal(resp.Body(), &out)
	return nil
}

func decodeGrant(resp *resty.Response) (*TokenGrant, error) {
	var grant TokenGrant
	if err := json.Unmarshal(resp.Body(), &grant); err != nil {
		return nil, fmt.Errorf("%w: decode token grant: %v", ErrUnavailable, err)
	}
	if grant.AccessToken == "" || grant.RefreshToken == "" {
		return nil, errors.New("transport: token grant missing tokens")
	}
	return &grant, nil
}
