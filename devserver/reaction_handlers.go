package devserver

import (
	"errors"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateReaction handles POST /api/v1/reactions. A second reaction of the
// same type on the same target conflicts; a different type updates in place.
func (s *Server) CreateReaction(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		ReactableID   uint                `json:"reactable_id"`
		ReactableType models.TargetKind   `json:"reactable_type"`
		ReactionType  models.ReactionType `json:"reaction_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ReactableID == 0 ||
		(req.ReactableType != models.TargetPost && req.ReactableType != models.TargetFile) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("reactable_id and reactable_type are required"))
	}
	if req.ReactionType == "" {
		req.ReactionType = models.ReactionLike
	}

	if req.ReactableType == models.TargetPost {
		var post models.Post
		err := s.db.First(&post, req.ReactableID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", req.ReactableID))
		}
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	var existing models.Reaction
	err := s.db.Where("reactor_user_id = ? AND reactable_id = ? AND reactable_type = ?",
		userID, req.ReactableID, req.ReactableType).First(&existing).Error
	if err == nil {
		if existing.ReactionType == req.ReactionType {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("Reaction already exists"))
		}
		existing.ReactionType = req.ReactionType
		if saveErr := s.db.Save(&existing).Error; saveErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
		}
		return c.JSON(existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	reaction := &models.Reaction{
		ReactorUserID: userID,
		ReactableID:   req.ReactableID,
		ReactableType: req.ReactableType,
		ReactionType:  req.ReactionType,
	}
	if createErr := s.db.Create(reaction).Error; createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}
	return c.Status(fiber.StatusCreated).JSON(reaction)
}

// DeleteReaction handles DELETE /api/v1/reactions/:userId/:targetId/:targetType.
// Callers may only remove their own reactions.
func (s *Server) DeleteReaction(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "targetId")
	if err != nil {
		return nil
	}
	targetType := models.TargetKind(c.Params("targetType"))

	if ownerID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Cannot remove another user's reaction"))
	}

	var reaction models.Reaction
	dbErr := s.db.Where("reactor_user_id = ? AND reactable_id = ? AND reactable_type = ?",
		ownerID, targetID, targetType).First(&reaction).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Reaction", targetID))
	}
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	if delErr := s.db.Delete(&reaction).Error; delErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, delErr)
	}
	return c.JSON(fiber.Map{"message": "Reaction removed"})
}
