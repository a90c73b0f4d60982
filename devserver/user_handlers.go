package devserver

import (
	"fmt"
	"time"

	"mingle/cache"
	"mingle/models"

	"github.com/gofiber/fiber/v2"
)

const suggestionCacheTTL = 30 * time.Second

// Me handles GET /api/v1/users/me.
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.getUserOr404(c, currentUserID(c))
	if err != nil {
		return nil
	}
	return c.JSON(user)
}

// UpdateMe handles PUT /api/v1/users/me.
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	user, err := s.getUserOr404(c, currentUserID(c))
	if err != nil {
		return nil
	}

	var req struct {
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
		Bio         string `json:"bio"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}

	if saveErr := s.db.Save(user).Error; saveErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
	}
	return c.JSON(user)
}

// GetUser handles GET /api/v1/users/:id.
func (s *Server) GetUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.getUserOr404(c, userID)
	if err != nil {
		return nil
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /api/v1/users/:id/posts.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
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
		Where("author_id = ? AND group_id IS NULL", userID)
	if viewerID != userID {
		friends, friendErr := s.friendIDs(viewerID)
		if friendErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, friendErr)
		}
		visible := []models.PrivacySetting{models.PrivacyPublic}
		for _, id := range friends {
			if id == userID {
				visible = append(visible, models.PrivacyFriends)
				break
			}
		}
		query = query.Where("privacy IN ?", visible)
	}

	var posts []models.Post
	if dbErr := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}
	if decErr := s.decoratePosts(viewerID, posts); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}
	return c.JSON(posts)
}

// Suggestions handles GET /api/v1/users/suggestions: users who are not the
// caller, not friends, and have no pending request in either direction.
// The result is cached per user for a short window.
func (s *Server) Suggestions(c *fiber.Ctx) error {
	userID := currentUserID(c)
	cacheKey := fmt.Sprintf("suggestions:%d", userID)

	var users []models.User
	err := cache.CacheAside(c.Context(), cacheKey, &users, suggestionCacheTTL, func() error {
		var related []models.Friendship
		if err := s.db.
			Where("requester_id = ? OR addressee_id = ?", userID, userID).
			Find(&related).Error; err != nil {
			return err
		}

		exclude := []uint{userID}
		for _, f := range related {
			if f.RequesterID == userID {
				exclude = append(exclude, f.AddresseeID)
			} else {
				exclude = append(exclude, f.RequesterID)
			}
		}

		return s.db.
			Where("id NOT IN ?", exclude).
			Order("created_at DESC").
			Limit(20).
			Find(&users).Error
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(users)
}
