package devserver

import (
	"errors"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// friendIDs returns the ids of users with an accepted friendship with userID.
func (s *Server) friendIDs(userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := s.db.
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)",
			models.FriendshipAccepted, userID, userID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			ids = append(ids, f.AddresseeID)
		} else {
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}

// decoratePost fills the computed Stats and IsLikedByMe fields for the
// requesting user. viewerID 0 means guest.
func (s *Server) decoratePost(viewerID uint, post *models.Post) error {
	var likes int64
	err := s.db.Model(&models.Reaction{}).
		Where("reactable_type = ? AND reactable_id = ?", models.TargetPost, post.ID).
		Count(&likes).Error
	if err != nil {
		return err
	}

	var comments int64
	err = s.db.Model(&models.Comment{}).
		Where("commentable_type = ? AND commentable_id = ?", models.TargetPost, post.ID).
		Count(&comments).Error
	if err != nil {
		return err
	}

	post.Stats = models.PostStats{Likes: int(likes), Comments: int(comments)}

	if viewerID != 0 {
		var liked int64
		err = s.db.Model(&models.Reaction{}).
			Where("reactable_type = ? AND reactable_id = ? AND reactor_user_id = ?",
				models.TargetPost, post.ID, viewerID).
			Count(&liked).Error
		if err != nil {
			return err
		}
		post.IsLikedByMe = liked > 0
	}
	return nil
}

func (s *Server) decoratePosts(viewerID uint, posts []models.Post) error {
	for i := range posts {
		if err := s.decoratePost(viewerID, &posts[i]); err != nil {
			return err
		}
	}
	return nil
}

// getUserOr404 loads a user or writes a 404.
func (s *Server) getUserOr404(c *fiber.Ctx, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", userID))
		return nil, errResponseWritten
	}
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusInternalServerError, err)
		return nil, errResponseWritten
	}
	return &user, nil
}
