package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/platewise/internal/models"
)

// LoginResult is the payload of a successful login
type LoginResult struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for tokens
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	r := request{
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      credentials{Email: email, Password: password},
		anonymous: true,
	}
	if err := c.do(ctx, r, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// Me returns the account the current token belongs to
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Logout tells the service to drop the session. Callers treat failures as non-fatal.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", anonymous: true}, nil)
}
