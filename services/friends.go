package services

import (
	"context"
	"fmt"

	"mingle/client"
	"mingle/models"
)

// FriendService builds requests against the friendship endpoints.
type FriendService struct {
	api *client.Client
}

// Suggestions returns users the current user might know: not already
// friends and no pending request in either direction.
func (s *FriendService) Suggestions(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.api.Get(ctx, "/users/suggestions", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Send creates a pending friend request to the target user.
func (s *FriendService) Send(ctx context.Context, targetID uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := s.api.Post(ctx, fmt.Sprintf("/friends/%d", targetID), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Requests returns incoming pending friend requests.
func (s *FriendService) Requests(ctx context.Context) ([]models.Friendship, error) {
	var reqs []models.Friendship
	if err := s.api.Get(ctx, "/friends/requests", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// List returns the current user's accepted friends.
func (s *FriendService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.api.Get(ctx, "/friends", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Accept accepts a pending request from the target user.
func (s *FriendService) Accept(ctx context.Context, targetID uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := s.api.Put(ctx, fmt.Sprintf("/friends/%d/accept", targetID), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Reject declines a pending request from the target user.
func (s *FriendService) Reject(ctx context.Context, targetID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/friends/%d/reject", targetID), nil)
}

// Unfriend removes an established friendship.
func (s *FriendService) Unfriend(ctx context.Context, targetID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/friends/%d", targetID), nil)
}
