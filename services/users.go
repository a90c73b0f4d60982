package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"mingle/client"
	"mingle/models"
)

// UserService builds requests against the user endpoints.
type UserService struct {
	api *client.Client
}

// Me returns the currently authenticated user.
func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := s.api.Get(ctx, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMeInput carries the editable profile fields.
type UpdateMeInput struct {
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// UpdateMe edits the current user's profile.
func (s *UserService) UpdateMe(ctx context.Context, input UpdateMeInput) (*models.User, error) {
	var u models.User
	if err := s.api.Put(ctx, "/users/me", input, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Get returns a user's public profile.
func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	if err := s.api.Get(ctx, fmt.Sprintf("/users/%d", userID), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Posts returns a user's posts, newest first.
func (s *UserService) Posts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var posts []models.Post
	if err := s.api.Get(ctx, fmt.Sprintf("/users/%d/posts", userID), q, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
