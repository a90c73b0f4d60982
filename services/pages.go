package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"mingle/client"
	"mingle/models"
)

// PageService builds requests against the page endpoints.
type PageService struct {
	api *client.Client
}

// CreatePageInput is the page-creation payload.
type CreatePageInput struct {
	Name        string `json:"page_name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

func (s *PageService) List(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	if err := s.api.Get(ctx, "/pages", nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// MyPages returns the pages on which the current user holds a role.
func (s *PageService) MyPages(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	if err := s.api.Get(ctx, "/me/pages", nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *PageService) Get(ctx context.Context, pageID uint) (*models.Page, error) {
	var p models.Page
	if err := s.api.Get(ctx, fmt.Sprintf("/pages/%d", pageID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PageService) Create(ctx context.Context, input CreatePageInput) (*models.Page, error) {
	var p models.Page
	if err := s.api.Post(ctx, "/pages", input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PageService) Update(ctx context.Context, pageID uint, input CreatePageInput) (*models.Page, error) {
	var p models.Page
	if err := s.api.Put(ctx, fmt.Sprintf("/pages/%d", pageID), input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PageService) Delete(ctx context.Context, pageID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/pages/%d", pageID), nil)
}

func (s *PageService) Follow(ctx context.Context, pageID uint) error {
	return s.api.Post(ctx, fmt.Sprintf("/pages/%d/follow", pageID), nil, nil)
}

func (s *PageService) Unfollow(ctx context.Context, pageID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/pages/%d/follow", pageID), nil)
}

// Posts returns a page's posts with keyset pagination: pass the id of the
// last post seen to fetch the next window.
func (s *PageService) Posts(ctx context.Context, pageID uint, limit int, lastPostID uint) ([]models.Post, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if lastPostID > 0 {
		q.Set("last_post_id", strconv.FormatUint(uint64(lastPostID), 10))
	}
	var posts []models.Post
	if err := s.api.Get(ctx, fmt.Sprintf("/pages/%d/posts", pageID), q, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Roles returns the page's role assignments. Page admins only.
func (s *PageService) Roles(ctx context.Context, pageID uint) ([]models.PageRole, error) {
	var roles []models.PageRole
	if err := s.api.Get(ctx, fmt.Sprintf("/pages/%d/roles", pageID), nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRole grants a role on the page to the user with the given email.
func (s *PageService) AssignRole(ctx context.Context, pageID uint, email string, role models.PageRoleName) (*models.PageRole, error) {
	body := map[string]any{"email": email, "role": role}
	var r models.PageRole
	if err := s.api.Post(ctx, fmt.Sprintf("/pages/%d/roles", pageID), body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PageService) RemoveRole(ctx context.Context, pageID, userID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/pages/%d/roles/%d", pageID, userID), nil)
}
