// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/morganforge/milliy-tui/internal/model"
)

// Credentials carries a token pair issued by the backend.
type Credentials struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// loginRequest is the body of the token endpoint.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest is the body of the registration endpoint.
type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// loginResponse wraps the token pair the way the backend delivers it.
type loginResponse struct {
	Data Credentials `json:"data"`
}

// userResponse wraps the profile endpoint payload.
type userResponse struct {
	Data model.User `json:"data"`
}

// Login exchanges an email/password pair for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	var resp loginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/users/auth/token/", false,
		loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return Credentials{}, err
	}
	return resp.Data, nil
}

// Register creates an account and logs it in, returning the token pair.
func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string) (Credentials, error) {
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/users/auth/register/", false,
		registerRequest{Email: email, Password: password, FirstName: firstName, LastName: lastName}, nil)
	if err != nil {
		return Credentials{}, err
	}
	return c.Login(ctx, email, password)
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var resp userResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/user/me/", true, nil, &resp); err != nil {
		return model.User{}, err
	}
	return resp.Data, nil
}
