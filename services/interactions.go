package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"mingle/client"
	"mingle/models"
)

// InteractionService builds requests for reactions and comments on
// reactable/commentable targets (posts and files).
type InteractionService struct {
	api *client.Client
}

type reactionPayload struct {
	ReactableID   uint                `json:"reactable_id"`
	ReactableType models.TargetKind   `json:"reactable_type"`
	ReactionType  models.ReactionType `json:"reaction_type"`
}

// React records a LIKE on the target. A duplicate like is rejected by the
// server with a conflict error.
func (s *InteractionService) React(ctx context.Context, target models.Target) error {
	return s.api.Post(ctx, "/reactions", reactionPayload{
		ReactableID:   target.ID,
		ReactableType: target.Kind,
		ReactionType:  models.ReactionLike,
	}, nil)
}

// Unreact removes the given user's reaction from the target. The reaction
// is addressed by its composite key.
func (s *InteractionService) Unreact(ctx context.Context, reactorUserID uint, target models.Target) error {
	path := fmt.Sprintf("/reactions/%d/%d/%s", reactorUserID, target.ID, target.Kind)
	return s.api.Delete(ctx, path, nil)
}

// Comments returns the flat comment sequence for a target, oldest first.
// Partitioning into top-level comments and replies happens client-side.
func (s *InteractionService) Comments(ctx context.Context, target models.Target) ([]models.Comment, error) {
	q := url.Values{}
	q.Set("commentable_id", strconv.FormatUint(uint64(target.ID), 10))
	q.Set("commentable_type", string(target.Kind))
	var comments []models.Comment
	if err := s.api.Get(ctx, "/comments", q, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

type commentPayload struct {
	CommentableID   uint              `json:"commentable_id"`
	CommentableType models.TargetKind `json:"commentable_type"`
	TextContent     string            `json:"text_content"`
	ParentCommentID *uint             `json:"parent_comment_id,omitempty"`
}

// CreateComment posts a comment on the target, optionally as a reply to a
// top-level comment. An empty or whitespace-only body is rejected before
// any request is issued.
func (s *InteractionService) CreateComment(ctx context.Context, target models.Target, text string, parentID *uint) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("comment body is empty: %w", client.ErrValidation)
	}
	var comment models.Comment
	err := s.api.Post(ctx, "/comments", commentPayload{
		CommentableID:   target.ID,
		CommentableType: target.Kind,
		TextContent:     text,
		ParentCommentID: parentID,
	}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
