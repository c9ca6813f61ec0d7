package gateway

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-admin-client/users"
	"github.com/pkg/errors"
)

// AuthService talks to the backend's authentication endpoints.
type AuthService struct {
	client *Client
}

// Auth returns the authentication sub-client.
func (c *Client) Auth() *AuthService {
	return &AuthService{client: c}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an identity and a fresh token pair. It
// does not persist anything; token ownership stays with the session manager.
func (as *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	_, err := as.client.do(ctx, http.MethodPost, "/auth/login", nil, jsonBody{loginRequest{Email: email, Password: password}}, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.Login]")
	}
	return &out, nil
}

// Profile fetches the identity record behind the persisted access token.
func (as *AuthService) Profile(ctx context.Context) (*users.User, error) {
	var out users.User
	_, err := as.client.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.Profile]")
	}
	return &out, nil
}
