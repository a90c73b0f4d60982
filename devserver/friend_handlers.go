package devserver

import (
	"errors"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListFriends handles GET /api/v1/friends: the caller's accepted friendships
// flattened to the users on the other side.
func (s *Server) ListFriends(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var friendships []models.Friendship
	err := s.db.Preload("Requester").Preload("Addressee").
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)",
			models.FriendshipAccepted, userID, userID).
		Find(&friendships).Error
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	friends := make([]models.User, 0, len(friendships))
	for i := range friendships {
		friends = append(friends, friendships[i].Other(userID))
	}
	return c.JSON(friends)
}

// ListFriendRequests handles GET /api/v1/friends/requests: pending requests
// addressed to the caller.
func (s *Server) ListFriendRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var requests []models.Friendship
	err := s.db.Preload("Requester").
		Where("addressee_id = ? AND status = ?", userID, models.FriendshipPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(requests)
}

// SendFriendRequest handles POST /api/v1/friends/:userId.
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	if targetID == userID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot send a friend request to yourself"))
	}
	if _, userErr := s.getUserOr404(c, targetID); userErr != nil {
		return nil
	}

	var existing models.Friendship
	dbErr := s.db.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		userID, targetID, targetID, userID).First(&existing).Error
	if dbErr == nil {
		if existing.Status == models.FriendshipAccepted {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("Already friends"))
		}
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Friend request already pending"))
	}
	if !errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	friendship := &models.Friendship{
		RequesterID: userID,
		AddresseeID: targetID,
		Status:      models.FriendshipPending,
	}
	if createErr := s.db.Create(friendship).Error; createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}
	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// AcceptFriendRequest handles PUT /api/v1/friends/:userId/accept. Only the
// addressee of a pending request may accept it; :userId is the requester.
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	requesterID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var friendship models.Friendship
	dbErr := s.db.Where("requester_id = ? AND addressee_id = ? AND status = ?",
		requesterID, userID, models.FriendshipPending).First(&friendship).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Friend request", requesterID))
	}
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	friendship.Status = models.FriendshipAccepted
	if saveErr := s.db.Save(&friendship).Error; saveErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
	}
	return c.JSON(friendship)
}

// RejectFriendRequest handles DELETE /api/v1/friends/:userId/reject.
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	requesterID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	result := s.db.Where("requester_id = ? AND addressee_id = ? AND status = ?",
		requesterID, userID, models.FriendshipPending).Delete(&models.Friendship{})
	if result.Error != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Friend request", requesterID))
	}
	return c.JSON(fiber.Map{"message": "Friend request rejected"})
}

// Unfriend handles DELETE /api/v1/friends/:userId.
func (s *Server) Unfriend(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	result := s.db.Where(
		"status = ? AND ((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?))",
		models.FriendshipAccepted, userID, targetID, targetID, userID).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Friendship", targetID))
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}
