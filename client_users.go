package goAuthClient

import (
	"context"
	"fmt"
	"net/http"
)

// GetUser describes the getuser operation and its observable behavior.
//
// GetUser may return an error when the call is rejected or transport fails.
// An expired access credential is renewed and the call retried transparently.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var user User
	err := c.gateway.send(ctx, apiCall{
		method: http.MethodGet,
		path:   fmt.Sprintf("/users/%d", id),
		out:    &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers describes the listusers operation and its observable behavior.
//
// ListUsers requires a session carrying an administrative role; otherwise the
// service answers 403 and the call surfaces [ErrForbidden].
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var users []User
	err := c.gateway.send(ctx, apiCall{
		method: http.MethodGet,
		path:   "/users",
		out:    &users,
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser describes the updateuser operation and its observable behavior.
//
// UpdateUser may return an error when the call is rejected or transport fails.
func (c *Client) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var user User
	err := c.gateway.send(ctx, apiCall{
		method: http.MethodPut,
		path:   fmt.Sprintf("/users/%d", id),
		body:   update,
		out:    &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser describes the deleteuser operation and its observable behavior.
//
// DeleteUser may return an error when the call is rejected or transport fails.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.gateway.send(ctx, apiCall{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/users/%d", id),
	})
}
