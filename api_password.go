package usuarios

import (
	"context"
	"fmt"
	"strings"
)

const (
	forgotPasswordPath = "/api/auth/forgot-password"
	resetPasswordPath  = "/api/auth/reset-password"
	changePasswordPath = "/api/auth/change-password"

	// Backend policy; checked locally so obvious mistakes never reach the
	// network.
	minPasswordLength = 8
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ForgotPassword requests a reset link. The backend answers with the same
// generic message whether or not the address exists, so callers cannot be
// used to enumerate accounts.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: a valid email address is required", ErrValidation)
	}
	var out messageResponse
	if err := c.transport.Post(ctx, forgotPasswordPath, forgotPasswordRequest{Email: email}, &out); err != nil {
		return "", mapTransportErr(err)
	}
	return out.Message, nil
}

// ResetPassword completes a reset started by ForgotPassword.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: reset token is required", ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return "", fmt.Errorf("%w: new password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	var out messageResponse
	err := c.transport.Post(ctx, resetPasswordPath, resetPasswordRequest{Token: token, NewPassword: newPassword}, &out)
	if err != nil {
		return "", mapTransportErr(err)
	}
	return out.Message, nil
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	if currentPassword == "" {
		return "", fmt.Errorf("%w: current password is required", ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return "", fmt.Errorf("%w: new password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if newPassword == currentPassword {
		return "", fmt.Errorf("%w: new password must differ from the current one", ErrValidation)
	}
	var out messageResponse
	err := c.transport.Post(ctx, changePasswordPath, changePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, &out)
	if err != nil {
		return "", mapTransportErr(err)
	}
	return out.Message, nil
}
