package services

import (
	"context"
	"encoding/json"

	"mingle/client"
	"mingle/models"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the account-creation payload.
type RegisterInput struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// AuthService builds requests against the auth endpoints.
type AuthService struct {
	api *client.Client
}

// Login exchanges credentials for a session. The response shape varies by
// deployment; ParseAuthSession normalizes it.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*models.AuthSession, error) {
	var raw json.RawMessage
	if err := s.api.Post(ctx, "/auth/login", creds, &raw); err != nil {
		return nil, err
	}
	return models.ParseAuthSession(raw)
}

// Register creates an account. Deployments that auto-login return a token
// and user; others return neither and require a subsequent Login.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.AuthSession, error) {
	var raw json.RawMessage
	if err := s.api.Post(ctx, "/auth/register", input, &raw); err != nil {
		return nil, err
	}
	return models.ParseAuthSession(raw)
}

// Logout invalidates the server-side session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.api.Post(ctx, "/auth/logout", nil, nil)
}
