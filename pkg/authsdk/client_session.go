package authsdk

import (
	"context"
	"net/http"
)

// Signup registers a new account. It does not log in.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) error {
	return c.message(ctx, http.MethodPost, "/signup", req, http.StatusCreated)
}

// Login authenticates and stores the session cookies in the client's jar.
func (c *SDKClient) Login(ctx context.Context, email, password string) error {
	return c.message(ctx, http.MethodPost, "/login", LoginRequest{Email: email, Password: password}, http.StatusOK)
}

// Refresh exchanges the stored refresh cookie for a new access cookie.
func (c *SDKClient) Refresh(ctx context.Context) error {
	return c.message(ctx, http.MethodPost, "/refresh", nil, http.StatusOK)
}

// Logout asks the service to clear both session cookies.
func (c *SDKClient) Logout(ctx context.Context) error {
	return c.message(ctx, http.MethodPost, "/logout", nil, http.StatusOK)
}

// WhoAmI returns the identity behind the current access cookie.
func (c *SDKClient) WhoAmI(ctx context.Context) (*IdentityResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth", nil)
	if err != nil {
		return nil, err
	}

	var id IdentityResponse
	if err := decodeJSON(resp, &id, http.StatusOK); err != nil {
		return nil, err
	}
	return &id, nil
}

// ListUsers returns every registered user. Requires a session.
func (c *SDKClient) ListUsers(ctx context.Context) ([]UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}

	var users []UserResponse
	if err := decodeJSON(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *SDKClient) message(ctx context.Context, method, path string, body any, expected int) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	var msg MessageResponse
	return decodeJSON(resp, &msg, expected)
}
