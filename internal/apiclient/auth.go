package apiclient

import (
	"context"
	"net/http"
	"time"

	"github.com/alexanderramin/weekplan/internal/contract"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// AuthResult is a freshly issued session. The client does not adopt the
// token on its own; callers pass it to SetToken.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

func authResult(res contract.AuthResponse) *AuthResult {
	return &AuthResult{Token: res.AccessToken, ExpiresAt: res.ExpiresAt, User: contract.ProfileToUser(res.User)}
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (*AuthResult, error) {
	var res contract.AuthResponse
	body := contract.RegisterRequest{Email: reg.Email, Password: reg.Password, Name: reg.Name}
	if err := c.call(ctx, http.MethodPost, "/api/auth/register", body, &res, nil); err != nil {
		return nil, err
	}
	return authResult(res), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res contract.AuthResponse
	body := contract.LoginRequest{Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", body, &res, nil); err != nil {
		return nil, err
	}
	return authResult(res), nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var p contract.UserProfile
	if err := c.call(ctx, http.MethodGet, "/api/auth/profile", nil, &p, nil); err != nil {
		return nil, err
	}
	u := contract.ProfileToUser(p)
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (*domain.User, error) {
	var p contract.UserProfile
	body := contract.UpdateProfileRequest{Email: patch.Email, Name: patch.Name}
	if err := c.call(ctx, http.MethodPatch, "/api/auth/profile", body, &p, nil); err != nil {
		return nil, err
	}
	u := contract.ProfileToUser(p)
	return &u, nil
}
