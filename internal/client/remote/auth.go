package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/shipdash/internal/models"
)

// Login exchanges credentials for a token. The response is returned as-is;
// persisting it is up to the caller.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, apiLogin, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the identity behind the stored token. Any non-2xx answer means
// the token is invalid or expired.
func (c *Client) Me(ctx context.Context) (*models.Identity, error) {
	var id models.Identity
	if err := c.do(ctx, http.MethodGet, apiMe, nil, &id, true); err != nil {
		return nil, err
	}
	return &id, nil
}

// ListUsers returns every account known to the backend.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, apiUsers, nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account and returns it as stored by the backend.
func (c *Client) CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error) {
	var resp models.UserResponse
	if err := c.do(ctx, http.MethodPost, apiUsers, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateUser changes an account. An empty password keeps the current one.
func (c *Client) UpdateUser(ctx context.Context, id string, req models.UserRequest) error {
	return c.do(ctx, http.MethodPut, apiUsers+"/"+url.PathEscape(id), req, nil, true)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, apiUsers+"/"+url.PathEscape(id), nil, nil, true)
}
