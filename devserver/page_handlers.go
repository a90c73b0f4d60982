package devserver

import (
	"errors"
	"strings"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (s *Server) getPageOr404(c *fiber.Ctx, pageID uint) (*models.Page, error) {
	var page models.Page
	err := s.db.First(&page, pageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Page", pageID))
		return nil, errResponseWritten
	}
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusInternalServerError, err)
		return nil, errResponseWritten
	}
	return &page, nil
}

// pageAdmin reports whether userID owns the page or holds a role on it.
func (s *Server) pageAdmin(page *models.Page, userID uint) (bool, error) {
	if page.OwnerID == userID {
		return true, nil
	}
	var count int64
	err := s.db.Model(&models.PageRole{}).
		Where("page_id = ? AND user_id = ?", page.ID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *Server) decoratePage(viewerID uint, page *models.Page) error {
	var followers int64
	err := s.db.Model(&models.PageFollow{}).
		Where("page_id = ?", page.ID).Count(&followers).Error
	if err != nil {
		return err
	}
	page.FollowerCount = int(followers)

	if viewerID != 0 {
		var mine int64
		err = s.db.Model(&models.PageFollow{}).
			Where("page_id = ? AND user_id = ?", page.ID, viewerID).Count(&mine).Error
		if err != nil {
			return err
		}
		page.IsFollowedBy = mine > 0
	}
	return nil
}

// ListPages handles GET /api/v1/pages.
func (s *Server) ListPages(c *fiber.Ctx) error {
	viewerID := currentUserID(c)

	var pages []models.Page
	if err := s.db.Order("created_at DESC").Find(&pages).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	for i := range pages {
		if err := s.decoratePage(viewerID, &pages[i]); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}
	return c.JSON(pages)
}

// MyPages handles GET /api/v1/me/pages: pages the caller owns or holds a
// role on.
func (s *Server) MyPages(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var pages []models.Page
	err := s.db.
		Where("owner_id = ? OR id IN (?)", userID,
			s.db.Model(&models.PageRole{}).Select("page_id").
				Where("user_id = ?", userID)).
		Find(&pages).Error
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	for i := range pages {
		if err := s.decoratePage(userID, &pages[i]); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}
	return c.JSON(pages)
}

// GetPage handles GET /api/v1/pages/:id.
func (s *Server) GetPage(c *fiber.Ctx) error {
	pageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, err := s.getPageOr404(c, pageID)
	if err != nil {
		return nil
	}
	if err := s.decoratePage(currentUserID(c), page); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(page)
}

// CreatePage handles POST /api/v1/pages.
func (s *Server) CreatePage(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name        string `json:"page_name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Page name is required"))
	}

	page := &models.Page{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		AvatarURL:   req.AvatarURL,
		OwnerID:     userID,
	}
	if err := s.db.Create(page).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(page)
}

// UpdatePage handles PUT /api/v1/pages/:id. Owner or role holder only.
func (s *Server) UpdatePage(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, err := s.getPageOr404(c, pageID)
	if err != nil {
		return nil
	}

	ok, admErr := s.pageAdmin(page, userID)
	if admErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, admErr)
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Requires a page role"))
	}

	var req struct {
		Name        string  `json:"page_name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		page.Name = name
	}
	if req.Description != nil {
		page.Description = *req.Description
	}
	if req.Category != nil {
		page.Category = *req.Category
	}
	if req.AvatarURL != nil {
		page.AvatarURL = *req.AvatarURL
	}

	if saveErr := s.db.Save(page).Error; saveErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
	}
	if decErr := s.decoratePage(userID, page); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}
	return c.JSON(page)
}

// DeletePage handles DELETE /api/v1/pages/:id. Owner only.
func (s *Server) DeletePage(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, err := s.getPageOr404(c, pageID)
	if err != nil {
		return nil
	}
	if page.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only the page owner can delete the page"))
	}

	delErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", pageID).Delete(&models.PageRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("page_id = ?", pageID).Delete(&models.PageFollow{}).Error; err != nil {
			return err
		}
		return tx.Delete(page).Error
	})
	if delErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, delErr)
	}
	return c.JSON(fiber.Map{"message": "Page deleted"})
}

// FollowPage handles POST /api/v1/pages/:id/follow.
func (s *Server) FollowPage(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, pgErr := s.getPageOr404(c, pageID); pgErr != nil {
		return nil
	}

	var existing models.PageFollow
	dbErr := s.db.Where("page_id = ? AND user_id = ?", pageID, userID).First(&existing).Error
	if dbErr == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Already following"))
	}
	if !errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	follow := &models.PageFollow{PageID: pageID, UserID: userID}
	if createErr := s.db.Create(follow).Error; createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// UnfollowPage handles DELETE /api/v1/pages/:id/follow.
func (s *Server) UnfollowPage(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result := s.db.Where("page_id = ? AND user_id = ?", pageID, userID).
		Delete(&models.PageFollow{})
	if result.Error != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Follow", pageID))
	}
	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// PagePosts handles GET /api/v1/pages/:id/posts with keyset pagination:
// pass last_post_id to continue past a previous batch.
func (s *Server) PagePosts(c *fiber.Ctx) error {
	viewerID := currentUserID(c)
	pageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, pgErr := s.getPageOr404(c, pageID); pgErr != nil {
		return nil
	}

	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := s.db.Preload("Author").Preload("Files").
		Where("page_id = ?", pageID)
	if lastID := c.QueryInt("last_post_id", 0); lastID > 0 {
		query = query.Where("id < ?", lastID)
	}

	var posts []models.Post
	if dbErr := query.Order("id DESC").Limit(limit).Find(&posts).Error; dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}
	if decErr := s.decoratePosts(viewerID, posts); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}
	return c.JSON(posts)
}

// PageRoles handles GET /api/v1/pages/:id/roles.
func (s *Server) PageRoles(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, err := s.getPageOr404(c, pageID)
	if err != nil {
		return nil
	}

	ok, admErr := s.pageAdmin(page, userID)
	if admErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, admErr)
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Requires a page role"))
	}

	var roles []models.PageRole
	if dbErr := s.db.Preload("User").Where("page_id = ?", pageID).Find(&roles).Error; dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}
	return c.JSON(roles)
}

// AssignPageRole handles POST /api/v1/pages/:id/roles. The grantee is
// identified by email, matching how page admin panels add staff.
func (s *Server) AssignPageRole(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, err := s.getPageOr404(c, pageID)
	if err != nil {
		return nil
	}
	if page.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only the page owner can assign roles"))
	}

	var req struct {
		Email string              `json:"email"`
		Role  models.PageRoleName `json:"role"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Role == "" {
		req.Role = models.PageRoleEditor
	}

	var user models.User
	dbErr := s.db.Where("email = ?", strings.TrimSpace(strings.ToLower(req.Email))).First(&user).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", req.Email))
	}
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	var existing models.PageRole
	dbErr = s.db.Where("page_id = ? AND user_id = ?", pageID, user.ID).First(&existing).Error
	if dbErr == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("User already has a role on this page"))
	}
	if !errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	role := &models.PageRole{PageID: pageID, UserID: user.ID, Role: req.Role}
	if createErr := s.db.Create(role).Error; createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

// RemovePageRole handles DELETE /api/v1/pages/:id/roles/:userId.
func (s *Server) RemovePageRole(c *fiber.Ctx) error {
	userID := currentUserID(c)
	pageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page, err := s.getPageOr404(c, pageID)
	if err != nil {
		return nil
	}
	if page.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only the page owner can remove roles"))
	}

	result := s.db.Where("page_id = ? AND user_id = ?", pageID, targetID).
		Delete(&models.PageRole{})
	if result.Error != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Page role", targetID))
	}
	return c.JSON(fiber.Map{"message": "Role removed"})
}
