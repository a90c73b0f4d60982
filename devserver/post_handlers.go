package devserver

import (
	"errors"
	"strings"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Feed handles GET /api/v1/feed. Guests see public posts only; an
// authenticated viewer additionally sees their own posts and the
// friends-only posts of their friends. Group-scoped posts never appear
// in the main feed.
func (s *Server) Feed(c *fiber.Ctx) error {
	viewerID := currentUserID(c)

	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	query := s.db.Preload("Author").Preload("Files").
		Where("group_id IS NULL")

	if viewerID == 0 {
		query = query.Where("privacy = ?", models.PrivacyPublic)
	} else {
		friends, err := s.friendIDs(viewerID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if len(friends) > 0 {
			query = query.Where(
				"privacy = ? OR author_id = ? OR (privacy = ? AND author_id IN ?)",
				models.PrivacyPublic, viewerID, models.PrivacyFriends, friends)
		} else {
			query = query.Where("privacy = ? OR author_id = ?",
				models.PrivacyPublic, viewerID)
		}
	}

	var posts []models.Post
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if err := s.decoratePosts(viewerID, posts); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/v1/posts. Attachments are referenced by the
// file ids returned from the upload endpoint; group and page scoping is
// optional and mutually exclusive in practice, though not enforced here.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		TextContent string                `json:"text_content"`
		Privacy     models.PrivacySetting `json:"privacy_setting"`
		FileIDs     []uint                `json:"file_ids"`
		GroupID     *uint                 `json:"group_id"`
		PageID      *uint                 `json:"page_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.TextContent = strings.TrimSpace(req.TextContent)
	if req.TextContent == "" && len(req.FileIDs) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Post must have text or attachments"))
	}
	if req.Privacy == "" {
		req.Privacy = models.PrivacyPublic
	}

	if req.GroupID != nil {
		var member models.GroupMember
		err := s.db.Where("group_id = ? AND user_id = ? AND status = ?",
			*req.GroupID, userID, models.MembershipApproved).First(&member).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("You are not a member of this group"))
		}
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	var files []models.File
	if len(req.FileIDs) > 0 {
		if err := s.db.Where("id IN ?", req.FileIDs).Find(&files).Error; err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if len(files) != len(req.FileIDs) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("One or more file ids are unknown"))
		}
	}

	post := &models.Post{
		AuthorID:    userID,
		TextContent: req.TextContent,
		Privacy:     req.Privacy,
		GroupID:     req.GroupID,
		PageID:      req.PageID,
		Files:       files,
	}
	if err := s.db.Create(post).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.db.Preload("Author").Preload("Files").First(post, post.ID).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if err := s.decoratePost(userID, post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// SharePost handles POST /api/v1/posts/:id/share. The new post references
// the original; sharing a share collapses to the root post.
func (s *Server) SharePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var original models.Post
	dbErr := s.db.First(&original, postID).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", postID))
	}
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	var req struct {
		TextContent string                `json:"text_content"`
		Privacy     models.PrivacySetting `json:"privacy_setting"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Privacy == "" {
		req.Privacy = models.PrivacyPublic
	}

	sharedID := original.ID
	if original.SharedPostID != nil {
		sharedID = *original.SharedPostID
	}

	post := &models.Post{
		AuthorID:     userID,
		TextContent:  strings.TrimSpace(req.TextContent),
		Privacy:      req.Privacy,
		SharedPostID: &sharedID,
	}
	if createErr := s.db.Create(post).Error; createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	if loadErr := s.db.Preload("Author").First(post, post.ID).Error; loadErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, loadErr)
	}
	if decErr := s.decoratePost(userID, post); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
