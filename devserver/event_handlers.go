package devserver

import (
	"errors"
	"strings"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (s *Server) getEventOr404(c *fiber.Ctx, eventID uint) (*models.Event, error) {
	var event models.Event
	err := s.db.Preload("Host").First(&event, eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Event", eventID))
		return nil, errResponseWritten
	}
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusInternalServerError, err)
		return nil, errResponseWritten
	}
	return &event, nil
}

func (s *Server) decorateEvent(viewerID uint, event *models.Event) error {
	var going int64
	err := s.db.Model(&models.EventParticipant{}).
		Where("event_id = ? AND status = ?", event.ID, models.RSVPGoing).
		Count(&going).Error
	if err != nil {
		return err
	}
	event.GoingCount = int(going)

	if viewerID != 0 {
		var participant models.EventParticipant
		err = s.db.Where("event_id = ? AND user_id = ?", event.ID, viewerID).
			First(&participant).Error
		if err == nil {
			event.MyRSVP = participant.Status
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

// ListEvents handles GET /api/v1/events. The optional filter query narrows
// to events the caller hosts (HOSTING) or has RSVP'd going to (GOING);
// without it, upcoming events are listed soonest first.
func (s *Server) ListEvents(c *fiber.Ctx) error {
	userID := currentUserID(c)

	query := s.db.Preload("Host")
	switch strings.ToUpper(c.Query("filter")) {
	case "HOSTING":
		query = query.Where("host_id = ?", userID)
	case "GOING":
		query = query.Where("id IN (?)",
			s.db.Model(&models.EventParticipant{}).Select("event_id").
				Where("user_id = ? AND status = ?", userID, models.RSVPGoing))
	case "":
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown filter"))
	}

	var events []models.Event
	if err := query.Order("start_time ASC").Find(&events).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	for i := range events {
		if err := s.decorateEvent(userID, &events[i]); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}
	return c.JSON(events)
}

// GetEvent handles GET /api/v1/events/:id.
func (s *Server) GetEvent(c *fiber.Ctx) error {
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	event, err := s.getEventOr404(c, eventID)
	if err != nil {
		return nil
	}
	if err := s.decorateEvent(currentUserID(c), event); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(event)
}

// CreateEvent handles POST /api/v1/events. The host is automatically
// recorded as going.
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req models.Event
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.StartTime.IsZero() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and start_time are required"))
	}
	if req.EndTime != nil && req.EndTime.Before(req.StartTime) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("end_time must be after start_time"))
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		HostID:      userID,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return tx.Create(&models.EventParticipant{
			EventID: event.ID,
			UserID:  userID,
			Status:  models.RSVPGoing,
		}).Error
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if loadErr := s.db.Preload("Host").First(event, event.ID).Error; loadErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, loadErr)
	}
	event.GoingCount = 1
	event.MyRSVP = models.RSVPGoing
	return c.Status(fiber.StatusCreated).JSON(event)
}

// UpdateEvent handles PUT /api/v1/events/:id. Host only.
func (s *Server) UpdateEvent(c *fiber.Ctx) error {
	userID := currentUserID(c)
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	event, err := s.getEventOr404(c, eventID)
	if err != nil {
		return nil
	}
	if event.HostID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only the host can update the event"))
	}

	var req models.Event
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		event.Title = title
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	if !req.StartTime.IsZero() {
		event.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		if req.EndTime.Before(event.StartTime) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("end_time must be after start_time"))
		}
		event.EndTime = req.EndTime
	}

	if saveErr := s.db.Save(event).Error; saveErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
	}
	if decErr := s.decorateEvent(userID, event); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}
	return c.JSON(event)
}

// DeleteEvent handles DELETE /api/v1/events/:id. Host only.
func (s *Server) DeleteEvent(c *fiber.Ctx) error {
	userID := currentUserID(c)
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	event, err := s.getEventOr404(c, eventID)
	if err != nil {
		return nil
	}
	if event.HostID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only the host can delete the event"))
	}

	delErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
	if delErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, delErr)
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}

// RSVPEvent handles POST /api/v1/events/:id/rsvp. Repeated calls update
// the existing answer.
func (s *Server) RSVPEvent(c *fiber.Ctx) error {
	userID := currentUserID(c)
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, evErr := s.getEventOr404(c, eventID); evErr != nil {
		return nil
	}

	var req struct {
		Status models.RSVPStatus `json:"status"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	switch req.Status {
	case models.RSVPGoing, models.RSVPInterested, models.RSVPDeclined:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown RSVP status"))
	}

	var participant models.EventParticipant
	dbErr := s.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&participant).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		participant = models.EventParticipant{
			EventID: eventID,
			UserID:  userID,
			Status:  req.Status,
		}
		if createErr := s.db.Create(&participant).Error; createErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
		}
		return c.Status(fiber.StatusCreated).JSON(participant)
	}
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	participant.Status = req.Status
	if saveErr := s.db.Save(&participant).Error; saveErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
	}
	return c.JSON(participant)
}

// EventParticipants handles GET /api/v1/events/:id/participants. An optional
// status query narrows to one RSVP answer.
func (s *Server) EventParticipants(c *fiber.Ctx) error {
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, evErr := s.getEventOr404(c, eventID); evErr != nil {
		return nil
	}

	query := s.db.Preload("User").Where("event_id = ?", eventID)
	if status := strings.ToUpper(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	var participants []models.EventParticipant
	if dbErr := query.Find(&participants).Error; dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}
	return c.JSON(participants)
}
