package api

import (
	"context"
	"net/http"

	"github.com/iliyamo/reservation-client/internal/model"
)

// Login exchanges an email and password for a session at
// POST /users/login.  On success the returned LoginResponse carries the
// bearer token and the authenticated user's identity, which callers are
// expected to persist in the credential store.  On a rejected login the
// returned *Error includes the server's own error message so it can be
// shown to the user verbatim.
func (c *Client) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	var resp model.LoginResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/users/login", nil, req, &resp, false); err != nil {
		return model.LoginResponse{}, err
	}
	return resp, nil
}

// Register creates a new account at POST /users/register.  The response
// body is discarded; a registered user is expected to log in afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := model.RegisterRequest{Username: username, Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/users/register", nil, req, nil, false)
}
