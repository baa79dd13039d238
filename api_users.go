package usuarios

import (
	"context"
	"fmt"
)

const usersPath = "/api/users/"

// ListUsers returns every user.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.transport.Get(ctx, usersPath, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return out, nil
}

// GetUser returns one user by ID.
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	var out User
	if err := c.transport.Get(ctx, fmt.Sprintf("/api/users/%d", id), &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, in UserCreate) (*User, error) {
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email, username, and password are required", ErrValidation)
	}
	var out User
	if err := c.transport.Post(ctx, usersPath, in, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// UpdateUser applies a partial update. Nil fields are left unchanged.
func (c *Client) UpdateUser(ctx context.Context, id int, in UserUpdate) (*User, error) {
	var out User
	if err := c.transport.Put(ctx, fmt.Sprintf("/api/users/%d", id), in, &out); err != nil {
		return nil, mapTransportErr(err)
	}
	return &out, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return mapTransportErr(c.transport.Delete(ctx, fmt.Sprintf("/api/users/%d", id)))
}
