package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"mingle/client"
	"mingle/models"
)

// AdminService builds requests against the admin panel endpoints.
// Every call requires an account with the admin flag; the server answers
// 403 otherwise.
type AdminService struct {
	api *client.Client
}

// AdminUserInput is the payload for creating or updating a user as admin.
type AdminUserInput struct {
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	IsAdmin     *bool  `json:"is_admin,omitempty"`
}

func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.api.Get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *AdminService) CreateUser(ctx context.Context, input AdminUserInput) (*models.User, error) {
	var u models.User
	if err := s.api.Post(ctx, "/admin/users", input, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, userID uint, input AdminUserInput) (*models.User, error) {
	var u models.User
	if err := s.api.Put(ctx, fmt.Sprintf("/admin/users/%d", userID), input, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, userID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/admin/users/%d", userID), nil)
}

func (s *AdminService) Roles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.api.Get(ctx, "/admin/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Stats returns the activity report: users with at least minPosts posts in
// the given year.
func (s *AdminService) Stats(ctx context.Context, year, minPosts int) ([]models.ActiveUserStat, error) {
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	if minPosts > 0 {
		q.Set("min_posts", strconv.Itoa(minPosts))
	}
	var stats []models.ActiveUserStat
	if err := s.api.Get(ctx, "/admin/stats", q, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// SentimentQuery filters the sentiment-scored post list.
type SentimentQuery struct {
	Year     int
	MinScore *float64
	MaxScore *float64
	Text     string
	Limit    int
}

// PostsSentiment returns posts annotated with sentiment scores, filtered by
// the query.
func (s *AdminService) PostsSentiment(ctx context.Context, query SentimentQuery) ([]models.SentimentPost, error) {
	q := url.Values{}
	if query.Year > 0 {
		q.Set("year", strconv.Itoa(query.Year))
	}
	if query.MinScore != nil {
		q.Set("min_score", strconv.FormatFloat(*query.MinScore, 'f', -1, 64))
	}
	if query.MaxScore != nil {
		q.Set("max_score", strconv.FormatFloat(*query.MaxScore, 'f', -1, 64))
	}
	if query.Text != "" {
		q.Set("text", query.Text)
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	var posts []models.SentimentPost
	if err := s.api.Get(ctx, "/admin/posts-sentiment", q, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
