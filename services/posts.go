package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"mingle/client"
	"mingle/models"
)

// PostService builds requests against the feed and post endpoints.
type PostService struct {
	api   *client.Client
	files *FileService
}

// CreatePostInput is the post-creation payload. FileIDs must reference
// already-uploaded attachments.
type CreatePostInput struct {
	TextContent string                `json:"text_content"`
	Privacy     models.PrivacySetting `json:"privacy_setting,omitempty"`
	FileIDs     []uint                `json:"file_ids,omitempty"`
	GroupID     *uint                 `json:"group_id,omitempty"`
	PageID      *uint                 `json:"page_id,omitempty"`
}

// Attachment is a pending upload for CreateWithAttachments.
type Attachment struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// Feed returns the posts visible to the current user, newest first.
func (s *PostService) Feed(ctx context.Context, limit int) ([]models.Post, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var posts []models.Post
	if err := s.api.Get(ctx, "/feed", q, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Create publishes a post.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	var post models.Post
	if err := s.api.Post(ctx, "/posts", input, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateWithAttachments uploads every attachment, then publishes the post
// embedding the server-assigned file ids. The post request is deliberately
// sequenced after all uploads complete because the body must carry the
// final id list.
func (s *PostService) CreateWithAttachments(ctx context.Context, input CreatePostInput, attachments []Attachment) (*models.Post, error) {
	for _, a := range attachments {
		f, err := s.files.Upload(ctx, a.Filename, a.ContentType, a.Reader)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", a.Filename, err)
		}
		input.FileIDs = append(input.FileIDs, f.ID)
	}
	return s.Create(ctx, input)
}

// ShareInput is the payload for resharing an existing post.
type ShareInput struct {
	TextContent string                `json:"text_content,omitempty"`
	Privacy     models.PrivacySetting `json:"privacy_setting,omitempty"`
}

// Share republishes an existing post to the current user's feed.
func (s *PostService) Share(ctx context.Context, postID uint, input ShareInput) (*models.Post, error) {
	var post models.Post
	if err := s.api.Post(ctx, fmt.Sprintf("/posts/%d/share", postID), input, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
