package service

import (
	"context"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/types"
)

// AuthService handles login and registration
type AuthService struct {
	api *client.Client
}

// NewAuthService creates a new AuthService instance
func NewAuthService(api *client.Client) *AuthService {
	return &AuthService{api: api}
}

// Authenticate exchanges credentials for a session token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	var resp types.TokenResponse
	err := s.api.PostJSON(ctx, "/auth/login", types.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrMissingToken
	}
	return resp.Token, nil
}

// Register creates an account. The backend usually confirms with a plain
// "User created"; the returned token is then empty and the user has to log in.
func (s *AuthService) Register(ctx context.Context, req types.SignupRequest) (string, error) {
	form := client.NewMultipart().
		Field("name", req.Name).
		Field("email", req.Email).
		Field("password", req.Password)
	attachUpload(form, "image", req.Avatar)

	var resp types.TokenResponse
	if err := s.api.PostMultipart(ctx, "/auth/signup", form, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
