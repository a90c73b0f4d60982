package devserver

import (
	"errors"
	"strings"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListComments handles GET /api/v1/comments?commentable_id=&commentable_type=.
// Returns the flat list for the target, oldest first; clients partition
// top-level comments from replies by parent_comment_id.
func (s *Server) ListComments(c *fiber.Ctx) error {
	commentableID := c.QueryInt("commentable_id", 0)
	commentableType := models.TargetKind(c.Query("commentable_type"))
	if commentableID <= 0 ||
		(commentableType != models.TargetPost && commentableType != models.TargetFile) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("commentable_id and commentable_type are required"))
	}

	var comments []models.Comment
	err := s.db.Preload("Author").
		Where("commentable_id = ? AND commentable_type = ?", commentableID, commentableType).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/v1/comments. Replies must reference a
// top-level comment on the same target; deeper nesting is rejected.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		CommentableID   uint              `json:"commentable_id"`
		CommentableType models.TargetKind `json:"commentable_type"`
		TextContent     string            `json:"text_content"`
		ParentCommentID *uint             `json:"parent_comment_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.TextContent = strings.TrimSpace(req.TextContent)
	if req.TextContent == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment text is required"))
	}
	if req.CommentableID == 0 ||
		(req.CommentableType != models.TargetPost && req.CommentableType != models.TargetFile) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("commentable_id and commentable_type are required"))
	}

	if req.CommentableType == models.TargetPost {
		var post models.Post
		err := s.db.First(&post, req.CommentableID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", req.CommentableID))
		}
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	if req.ParentCommentID != nil {
		var parent models.Comment
		err := s.db.First(&parent, *req.ParentCommentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Comment", *req.ParentCommentID))
		}
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if parent.CommentableID != req.CommentableID || parent.CommentableType != req.CommentableType {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Parent comment belongs to a different target"))
		}
		if parent.ParentCommentID != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Replies to replies are not supported"))
		}
	}

	comment := &models.Comment{
		CommentableID:   req.CommentableID,
		CommentableType: req.CommentableType,
		ParentCommentID: req.ParentCommentID,
		AuthorID:        userID,
		TextContent:     req.TextContent,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if err := s.db.Preload("Author").First(comment, comment.ID).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
