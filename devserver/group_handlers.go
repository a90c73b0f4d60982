package devserver

import (
	"errors"
	"strings"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// getGroupOr404 loads a group or writes a 404.
func (s *Server) getGroupOr404(c *fiber.Ctx, groupID uint) (*models.Group, error) {
	var group models.Group
	err := s.db.First(&group, groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Group", groupID))
		return nil, errResponseWritten
	}
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusInternalServerError, err)
		return nil, errResponseWritten
	}
	return &group, nil
}

// groupMembership returns the caller's membership row, or nil when absent.
func (s *Server) groupMembership(groupID, userID uint) (*models.GroupMember, error) {
	var member models.GroupMember
	err := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// requireGroupAdmin writes a 403 unless the caller is an approved admin or
// moderator of the group.
func (s *Server) requireGroupAdmin(c *fiber.Ctx, groupID, userID uint) error {
	member, err := s.groupMembership(groupID, userID)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusInternalServerError, err)
		return errResponseWritten
	}
	if member == nil || member.Status != models.MembershipApproved ||
		(member.Role != models.GroupRoleAdmin && member.Role != models.GroupRoleModerator) {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Requires group admin or moderator role"))
		return errResponseWritten
	}
	return nil
}

func (s *Server) fillMemberCount(group *models.Group) error {
	var count int64
	err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND status = ?", group.ID, models.MembershipApproved).
		Count(&count).Error
	group.MemberCount = int(count)
	return err
}

// ListGroups handles GET /api/v1/groups. Hidden groups are only visible to
// their members.
func (s *Server) ListGroups(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var groups []models.Group
	err := s.db.
		Where("is_visible = ? OR id IN (?)", true,
			s.db.Model(&models.GroupMember{}).Select("group_id").
				Where("user_id = ? AND status = ?", userID, models.MembershipApproved)).
		Order("created_at DESC").
		Find(&groups).Error
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	for i := range groups {
		if err := s.fillMemberCount(&groups[i]); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}
	return c.JSON(groups)
}

// MyGroups handles GET /api/v1/groups/my-groups.
func (s *Server) MyGroups(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var groups []models.Group
	err := s.db.
		Where("id IN (?)",
			s.db.Model(&models.GroupMember{}).Select("group_id").
				Where("user_id = ? AND status = ?", userID, models.MembershipApproved)).
		Find(&groups).Error
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	for i := range groups {
		if err := s.fillMemberCount(&groups[i]); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}
	return c.JSON(groups)
}

// GetGroup handles GET /api/v1/groups/:id.
func (s *Server) GetGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	group, err := s.getGroupOr404(c, groupID)
	if err != nil {
		return nil
	}
	if err := s.fillMemberCount(group); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(group)
}

// CreateGroup handles POST /api/v1/groups. The creator becomes an approved
// admin member.
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name        string              `json:"group_name"`
		Description string              `json:"description"`
		Privacy     models.GroupPrivacy `json:"privacy_type"`
		IsVisible   *bool               `json:"is_visible"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Group name is required"))
	}
	if req.Privacy == "" {
		req.Privacy = models.GroupPublic
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		Privacy:     req.Privacy,
		IsVisible:   req.IsVisible == nil || *req.IsVisible,
		OwnerID:     userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Create(&models.GroupMember{
			GroupID: group.ID,
			UserID:  userID,
			Role:    models.GroupRoleAdmin,
			Status:  models.MembershipApproved,
		}).Error
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	group.MemberCount = 1
	return c.Status(fiber.StatusCreated).JSON(group)
}

// UpdateGroup handles PUT /api/v1/groups/:id.
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	group, err := s.getGroupOr404(c, groupID)
	if err != nil {
		return nil
	}
	if err := s.requireGroupAdmin(c, groupID, userID); err != nil {
		return nil
	}

	var req struct {
		Name        string              `json:"group_name"`
		Description *string             `json:"description"`
		Privacy     models.GroupPrivacy `json:"privacy_type"`
		IsVisible   *bool               `json:"is_visible"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		group.Name = name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Privacy != "" {
		group.Privacy = req.Privacy
	}
	if req.IsVisible != nil {
		group.IsVisible = *req.IsVisible
	}

	if saveErr := s.db.Save(group).Error; saveErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
	}
	if cntErr := s.fillMemberCount(group); cntErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, cntErr)
	}
	return c.JSON(group)
}

// DeleteGroup handles DELETE /api/v1/groups/:id. Owner only.
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	group, err := s.getGroupOr404(c, groupID)
	if err != nil {
		return nil
	}
	if group.OwnerID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only the group owner can delete the group"))
	}

	delErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupRule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.MembershipQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
	if delErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, delErr)
	}
	return c.JSON(fiber.Map{"message": "Group deleted"})
}

// GroupMembers handles GET /api/v1/groups/:id/members.
func (s *Server) GroupMembers(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, grpErr := s.getGroupOr404(c, groupID); grpErr != nil {
		return nil
	}

	var members []models.GroupMember
	dbErr := s.db.Preload("User").
		Where("group_id = ? AND status = ?", groupID, models.MembershipApproved).
		Find(&members).Error
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}
	return c.JSON(members)
}

// JoinGroup handles POST /api/v1/groups/:id/join. Public groups approve
// immediately; private groups queue a pending request, storing any answers
// to the group's membership questions.
func (s *Server) JoinGroup(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	group, err := s.getGroupOr404(c, groupID)
	if err != nil {
		return nil
	}

	member, memErr := s.groupMembership(groupID, userID)
	if memErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, memErr)
	}
	if member != nil {
		switch member.Status {
		case models.MembershipBanned:
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("You are banned from this group"))
		case models.MembershipPending:
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("Join request already pending"))
		default:
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("Already a member"))
		}
	}

	var req struct {
		Answers []struct {
			QuestionID uint   `json:"question_id"`
			AnswerText string `json:"answer_text"`
		} `json:"answers"`
	}
	// Body is optional for public groups.
	_ = c.BodyParser(&req)

	status := models.MembershipApproved
	if group.Privacy == models.GroupPrivate {
		status = models.MembershipPending
	}

	newMember := &models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    models.GroupRoleMember,
		Status:  status,
	}
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newMember).Error; err != nil {
			return err
		}
		for _, a := range req.Answers {
			answer := &models.MembershipAnswer{
				QuestionID: a.QuestionID,
				GroupID:    groupID,
				UserID:     userID,
				AnswerText: a.AnswerText,
			}
			if err := tx.Create(answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, txErr)
	}
	return c.Status(fiber.StatusCreated).JSON(newMember)
}

// LeaveGroup handles POST /api/v1/groups/:id/leave. The owner cannot leave.
func (s *Server) LeaveGroup(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	group, err := s.getGroupOr404(c, groupID)
	if err != nil {
		return nil
	}
	if group.OwnerID == userID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("The owner cannot leave their own group"))
	}

	result := s.db.Where("group_id = ? AND user_id = ? AND status <> ?",
		groupID, userID, models.MembershipBanned).Delete(&models.GroupMember{})
	if result.Error != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Membership", groupID))
	}
	return c.JSON(fiber.Map{"message": "Left group"})
}

// GroupPendingRequests handles GET /api/v1/groups/:id/pending-requests.
func (s *Server) GroupPendingRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, grpErr := s.getGroupOr404(c, groupID); grpErr != nil {
		return nil
	}
	if admErr := s.requireGroupAdmin(c, groupID, userID); admErr != nil {
		return nil
	}

	var pending []models.GroupMember
	dbErr := s.db.Preload("User").
		Where("group_id = ? AND status = ?", groupID, models.MembershipPending).
		Find(&pending).Error
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}
	return c.JSON(pending)
}

// setMemberStatus transitions a member's status after an admin action.
func (s *Server) setMemberStatus(c *fiber.Ctx, from, to models.MembershipStatus, remove bool) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	if _, grpErr := s.getGroupOr404(c, groupID); grpErr != nil {
		return nil
	}
	if admErr := s.requireGroupAdmin(c, groupID, userID); admErr != nil {
		return nil
	}

	var member models.GroupMember
	dbErr := s.db.Where("group_id = ? AND user_id = ? AND status = ?",
		groupID, targetID, from).First(&member).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Group member", targetID))
	}
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	if remove {
		if delErr := s.db.Delete(&member).Error; delErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, delErr)
		}
		return c.JSON(fiber.Map{"message": "Request rejected"})
	}

	member.Status = to
	if saveErr := s.db.Save(&member).Error; saveErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
	}
	return c.JSON(member)
}

// ApproveGroupMember handles POST /api/v1/groups/:id/members/:userId/approve.
func (s *Server) ApproveGroupMember(c *fiber.Ctx) error {
	return s.setMemberStatus(c, models.MembershipPending, models.MembershipApproved, false)
}

// RejectGroupMember handles POST /api/v1/groups/:id/members/:userId/reject.
func (s *Server) RejectGroupMember(c *fiber.Ctx) error {
	return s.setMemberStatus(c, models.MembershipPending, "", true)
}

// BanGroupMember handles POST /api/v1/groups/:id/members/:userId/ban.
func (s *Server) BanGroupMember(c *fiber.Ctx) error {
	return s.setMemberStatus(c, models.MembershipApproved, models.MembershipBanned, false)
}

// UnbanGroupMember handles POST /api/v1/groups/:id/members/:userId/unban.
// Unbanning removes the membership row; the user may rejoin.
func (s *Server) UnbanGroupMember(c *fiber.Ctx) error {
	return s.setMemberStatus(c, models.MembershipBanned, "", true)
}

// SetGroupMemberRole handles POST /api/v1/groups/:id/members/:userId/role.
func (s *Server) SetGroupMemberRole(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	if _, grpErr := s.getGroupOr404(c, groupID); grpErr != nil {
		return nil
	}
	if admErr := s.requireGroupAdmin(c, groupID, userID); admErr != nil {
		return nil
	}

	var req struct {
		Role models.GroupRole `json:"role"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	switch req.Role {
	case models.GroupRoleMember, models.GroupRoleModerator, models.GroupRoleAdmin:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown role"))
	}

	var member models.GroupMember
	dbErr := s.db.Where("group_id = ? AND user_id = ? AND status = ?",
		groupID, targetID, models.MembershipApproved).First(&member).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Group member", targetID))
	}
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}

	member.Role = req.Role
	if saveErr := s.db.Save(&member).Error; saveErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
	}
	return c.JSON(member)
}

// InviteToGroup handles POST /api/v1/groups/:id/invite/:userId. Any approved
// member may invite a friend; the invitee joins immediately as approved.
func (s *Server) InviteToGroup(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	inviteeID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	if _, grpErr := s.getGroupOr404(c, groupID); grpErr != nil {
		return nil
	}

	member, memErr := s.groupMembership(groupID, userID)
	if memErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, memErr)
	}
	if member == nil || member.Status != models.MembershipApproved {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only members can invite"))
	}

	existing, exErr := s.groupMembership(groupID, inviteeID)
	if exErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, exErr)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("User is already in the group"))
	}

	invitee := &models.GroupMember{
		GroupID: groupID,
		UserID:  inviteeID,
		Role:    models.GroupRoleMember,
		Status:  models.MembershipApproved,
	}
	if createErr := s.db.Create(invitee).Error; createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}
	return c.Status(fiber.StatusCreated).JSON(invitee)
}

// GroupPosts handles GET /api/v1/groups/:id/posts. Members only for private
// groups.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	userID := currentUserID(c)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	group, err := s.getGroupOr404(c, groupID)
	if err != nil {
		return nil
	}

	if group.Privacy == models.GroupPrivate {
		member, memErr := s.groupMembership(groupID, userID)
		if memErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, memErr)
		}
		if member == nil || member.Status != models.MembershipApproved {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Members only"))
		}
	}

	var posts []models.Post
	dbErr := s.db.Preload("Author").Preload("Files").
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&posts).Error
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}
	if decErr := s.decoratePosts(userID, posts); decErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, decErr)
	}
	return c.JSON(posts)
}

// ListGroupRules handles GET /api/v1/group-rules?group_id=.
func (s *Server) ListGroupRules(c *fiber.Ctx) error {
	groupID := c.QueryInt("group_id", 0)
	if groupID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("group_id is required"))
	}

	var rules []models.GroupRule
	err := s.db.Where("group_id = ?", groupID).
		Order("display_order ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(rules)
}

// CreateGroupRule handles POST /api/v1/group-rules.
func (s *Server) CreateGroupRule(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		GroupID      uint   `json:"group_id"`
		Title        string `json:"title"`
		Details      string `json:"details"`
		DisplayOrder int    `json:"display_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.GroupID == 0 || req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("group_id and title are required"))
	}
	if _, grpErr := s.getGroupOr404(c, req.GroupID); grpErr != nil {
		return nil
	}
	if admErr := s.requireGroupAdmin(c, req.GroupID, userID); admErr != nil {
		return nil
	}

	rule := &models.GroupRule{
		GroupID:      req.GroupID,
		Title:        req.Title,
		Details:      req.Details,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.db.Create(rule).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// DeleteGroupRule handles DELETE /api/v1/group-rules/:id.
func (s *Server) DeleteGroupRule(c *fiber.Ctx) error {
	userID := currentUserID(c)
	ruleID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var rule models.GroupRule
	dbErr := s.db.First(&rule, ruleID).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Group rule", ruleID))
	}
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}
	if admErr := s.requireGroupAdmin(c, rule.GroupID, userID); admErr != nil {
		return nil
	}

	if delErr := s.db.Delete(&rule).Error; delErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, delErr)
	}
	return c.JSON(fiber.Map{"message": "Rule deleted"})
}

// ListMembershipQuestions handles GET /api/v1/membership-questions?group_id=.
func (s *Server) ListMembershipQuestions(c *fiber.Ctx) error {
	groupID := c.QueryInt("group_id", 0)
	if groupID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("group_id is required"))
	}

	var questions []models.MembershipQuestion
	err := s.db.Where("group_id = ?", groupID).Order("id ASC").Find(&questions).Error
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(questions)
}

// CreateMembershipQuestion handles POST /api/v1/membership-questions.
func (s *Server) CreateMembershipQuestion(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		GroupID      uint   `json:"group_id"`
		QuestionText string `json:"question_text"`
		IsRequired   bool   `json:"is_required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.QuestionText = strings.TrimSpace(req.QuestionText)
	if req.GroupID == 0 || req.QuestionText == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("group_id and question_text are required"))
	}
	if _, grpErr := s.getGroupOr404(c, req.GroupID); grpErr != nil {
		return nil
	}
	if admErr := s.requireGroupAdmin(c, req.GroupID, userID); admErr != nil {
		return nil
	}

	question := &models.MembershipQuestion{
		GroupID:      req.GroupID,
		QuestionText: req.QuestionText,
		IsRequired:   req.IsRequired,
	}
	if err := s.db.Create(question).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// DeleteMembershipQuestion handles DELETE /api/v1/membership-questions/:id.
func (s *Server) DeleteMembershipQuestion(c *fiber.Ctx) error {
	userID := currentUserID(c)
	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var question models.MembershipQuestion
	dbErr := s.db.First(&question, questionID).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Membership question", questionID))
	}
	if dbErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, dbErr)
	}
	if admErr := s.requireGroupAdmin(c, question.GroupID, userID); admErr != nil {
		return nil
	}

	if delErr := s.db.Delete(&question).Error; delErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, delErr)
	}
	return c.JSON(fiber.Map{"message": "Question deleted"})
}
