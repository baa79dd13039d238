package usuarios

import (
	"context"
	"fmt"
)

const permissionsPath = "/api/permissions/"

// ListPermissions returns every permission record.
func (c *Client) ListPermissions(ctx context.Context) ([]Permission, error) {
	var out []Permission
	if err := c.transport.Get(ctx, permissionsPath, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return out, nil
}

// GetPermission returns one permission by ID.
func (c *Client) GetPermission(ctx context.Context, id int) (*Permission, error) {
	var out Permission
	if err := c.transport.Get(ctx, fmt.Sprintf("/api/permissions/%d", id), &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// CreatePermission creates a permission record.
func (c *Client) CreatePermission(ctx context.Context, in PermissionCreate) (*Permission, error) {
	if in.Name == "" || in.Code == "" {
		return nil, fmt.Errorf("%w: permission name and code are required", ErrValidation)
	}
	var out Permission
	if err := c.transport.Post(ctx, permissionsPath, in, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// UpdatePermission applies a partial update.
func (c *Client) UpdatePermission(ctx context.Context, id int, in PermissionUpdate) (*Permission, error) {
	var out Permission
	if err := c.transport.Put(ctx, fmt.Sprintf("/api/permissions/%d", id), in, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// DeletePermission removes a permission record.
func (c *Client) DeletePermission(ctx context.Context, id int) error {
	return mapTransportErr(c.transport.Delete(ctx, fmt.Sprintf("/api/permissions/%d", id)))
}
