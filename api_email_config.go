package usuarios

import (
	"context"
	"fmt"
)

const emailConfigPath = "/api/email-config/"

// EmailProviderPresets returns ready-made SMTP profiles for common
// providers.
func (c *Client) EmailProviderPresets(ctx context.Context) ([]EmailProviderPreset, error) {
	var out []EmailProviderPreset
	if err := c.transport.Get(ctx, emailConfigPath+"presets", &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return out, nil
}

// ListEmailConfigs returns every stored SMTP configuration.
func (c *Client) ListEmailConfigs(ctx context.Context) ([]EmailConfig, error) {
	var out []EmailConfig
	if err := c.transport.Get(ctx, emailConfigPath, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return out, nil
}

// ActiveEmailConfig returns the configuration currently used for outgoing
// mail.
func (c *Client) ActiveEmailConfig(ctx context.Context) (*EmailConfig, error) {
	var out EmailConfig
	if err := c.transport.Get(ctx, emailConfigPath+"active", &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// GetEmailConfig returns one configuration by ID.
func (c *Client) GetEmailConfig(ctx context.Context, id int) (*EmailConfig, error) {
	var out EmailConfig
	if err := c.transport.Get(ctx, fmt.Sprintf("/api/email-config/%d", id), &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// CreateEmailConfig stores a new SMTP configuration.
func (c *Client) CreateEmailConfig(ctx context.Context, in EmailConfigCreate) (*EmailConfig, error) {
	if in.SMTPHost == "" || in.SMTPPort == 0 || in.SenderEmail == "" {
		return nil, fmt.Errorf("%w: smtp host, port, and sender email are required", ErrValidation)
	}
	var out EmailConfig
	if err := c.transport.Post(ctx, emailConfigPath, in, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// UpdateEmailConfig applies a partial update.
func (c *Client) UpdateEmailConfig(ctx context.Context, id int, in EmailConfigUpdate) (*EmailConfig, error) {
	var out EmailConfig
	if err := c.transport.Put(ctx, fmt.Sprintf("/api/email-config/%d", id), in, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// DeleteEmailConfig removes a configuration.
func (c *Client) DeleteEmailConfig(ctx context.Context, id int) error {
	return mapTransportErr(c.transport.Delete(ctx, fmt.Sprintf("/api/email-config/%d", id)))
}

// ActivateEmailConfig makes the given configuration the active one.
func (c *Client) ActivateEmailConfig(ctx context.Context, id int) (*EmailConfig, error) {
	var out EmailConfig
	if err := c.transport.Post(ctx, fmt.Sprintf("/api/email-config/%d/activate", id), nil, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

type emailTestRequest struct {
	RecipientEmail string `json:"recipient_email"`
}

// TestEmailConfig sends a test message through the active configuration.
func (c *Client) TestEmailConfig(ctx context.Context, recipientEmail string) (string, error) {
	if recipientEmail == "" {
		return "", fmt.Errorf("%w: recipient email is required", ErrValidation)
	}
	var out struct {
		Message string `json:"message"`
	}
	err := c.transport.Post(ctx, emailConfigPath+"test", emailTestRequest{RecipientEmail: recipientEmail}, &out)
	if err != nil {
		return "", mapTransportErr(err)
	}
	return out.Message, nil
}
