package usuarios

import (
	"context"
	"fmt"
)

const rolesPath = "/api/roles/"

// ListRoles returns every role with its permissions expanded.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var out []Role
	if err := c.transport.Get(ctx, rolesPath, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return out, nil
}

// GetRole returns one role by ID.
func (c *Client) GetRole(ctx context.Context, id int) (*Role, error) {
	var out Role
	if err := c.transport.Get(ctx, fmt.Sprintf("/api/roles/%d", id), &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// CreateRole creates a role.
func (c *Client) CreateRole(ctx context.Context, in RoleCreate) (*Role, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrValidation)
	}
	var out Role
	if err := c.transport.Post(ctx, rolesPath, in, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// UpdateRole applies a partial update.
func (c *Client) UpdateRole(ctx context.Context, id int, in RoleUpdate) (*Role, error) {
	var out Role
	if err := c.transport.Put(ctx, fmt.Sprintf("/api/roles/%d", id), in, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// DeleteRole removes a role.
func (c *Client) DeleteRole(ctx context.Context, id int) error {
	return mapTransportErr(c.transport.Delete(ctx, fmt.Sprintf("/api/roles/%d", id)))
}
