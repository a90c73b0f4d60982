package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"mingle/client"
	"mingle/models"
)

// GroupService builds requests against the group endpoints.
type GroupService struct {
	api *client.Client
}

// CreateGroupInput is the group-creation payload.
type CreateGroupInput struct {
	Name        string              `json:"group_name"`
	Description string              `json:"description,omitempty"`
	Privacy     models.GroupPrivacy `json:"privacy_type,omitempty"`
	IsVisible   *bool               `json:"is_visible,omitempty"`
}

// JoinAnswer answers one membership question when joining a group.
type JoinAnswer struct {
	QuestionID uint   `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.api.Get(ctx, "/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GroupService) MyGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.api.Get(ctx, "/groups/my-groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GroupService) Get(ctx context.Context, groupID uint) (*models.Group, error) {
	var g models.Group
	if err := s.api.Get(ctx, fmt.Sprintf("/groups/%d", groupID), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GroupService) Create(ctx context.Context, input CreateGroupInput) (*models.Group, error) {
	var g models.Group
	if err := s.api.Post(ctx, "/groups", input, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GroupService) Update(ctx context.Context, groupID uint, input CreateGroupInput) (*models.Group, error) {
	var g models.Group
	if err := s.api.Put(ctx, fmt.Sprintf("/groups/%d", groupID), input, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GroupService) Delete(ctx context.Context, groupID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/groups/%d", groupID), nil)
}

func (s *GroupService) Members(ctx context.Context, groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := s.api.Get(ctx, fmt.Sprintf("/groups/%d/members", groupID), nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Join requests membership, answering the group's membership questions.
// Public groups approve immediately; private groups leave the membership
// pending for moderator review.
func (s *GroupService) Join(ctx context.Context, groupID uint, answers []JoinAnswer) (*models.GroupMember, error) {
	body := map[string]any{"answers": answers}
	var m models.GroupMember
	if err := s.api.Post(ctx, fmt.Sprintf("/groups/%d/join", groupID), body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GroupService) Leave(ctx context.Context, groupID uint) error {
	return s.api.Post(ctx, fmt.Sprintf("/groups/%d/leave", groupID), nil, nil)
}

func (s *GroupService) PendingRequests(ctx context.Context, groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := s.api.Get(ctx, fmt.Sprintf("/groups/%d/pending-requests", groupID), nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *GroupService) ApproveMember(ctx context.Context, groupID, userID uint) error {
	return s.api.Post(ctx, fmt.Sprintf("/groups/%d/members/%d/approve", groupID, userID), nil, nil)
}

func (s *GroupService) RejectMember(ctx context.Context, groupID, userID uint) error {
	return s.api.Post(ctx, fmt.Sprintf("/groups/%d/members/%d/reject", groupID, userID), nil, nil)
}

func (s *GroupService) BanMember(ctx context.Context, groupID, userID uint) error {
	return s.api.Post(ctx, fmt.Sprintf("/groups/%d/members/%d/ban", groupID, userID), nil, nil)
}

func (s *GroupService) UnbanMember(ctx context.Context, groupID, userID uint) error {
	return s.api.Post(ctx, fmt.Sprintf("/groups/%d/members/%d/unban", groupID, userID), nil, nil)
}

func (s *GroupService) SetMemberRole(ctx context.Context, groupID, userID uint, role models.GroupRole) error {
	body := map[string]any{"role": role}
	return s.api.Post(ctx, fmt.Sprintf("/groups/%d/members/%d/role", groupID, userID), body, nil)
}

func (s *GroupService) InviteFriend(ctx context.Context, groupID, userID uint) error {
	return s.api.Post(ctx, fmt.Sprintf("/groups/%d/invite/%d", groupID, userID), nil, nil)
}

func (s *GroupService) Posts(ctx context.Context, groupID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.api.Get(ctx, fmt.Sprintf("/groups/%d/posts", groupID), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Rules returns a group's rules ordered by display order.
func (s *GroupService) Rules(ctx context.Context, groupID uint) ([]models.GroupRule, error) {
	q := url.Values{}
	q.Set("group_id", strconv.FormatUint(uint64(groupID), 10))
	var rules []models.GroupRule
	if err := s.api.Get(ctx, "/group-rules", q, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// CreateRuleInput is the payload for adding a group rule.
type CreateRuleInput struct {
	GroupID      uint   `json:"group_id"`
	Title        string `json:"title"`
	Details      string `json:"details,omitempty"`
	DisplayOrder int    `json:"display_order,omitempty"`
}

func (s *GroupService) CreateRule(ctx context.Context, input CreateRuleInput) (*models.GroupRule, error) {
	var rule models.GroupRule
	if err := s.api.Post(ctx, "/group-rules", input, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *GroupService) DeleteRule(ctx context.Context, ruleID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/group-rules/%d", ruleID), nil)
}

// Questions returns the membership questions asked when joining a group.
func (s *GroupService) Questions(ctx context.Context, groupID uint) ([]models.MembershipQuestion, error) {
	q := url.Values{}
	q.Set("group_id", strconv.FormatUint(uint64(groupID), 10))
	var questions []models.MembershipQuestion
	if err := s.api.Get(ctx, "/membership-questions", q, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateQuestionInput is the payload for adding a membership question.
type CreateQuestionInput struct {
	GroupID      uint   `json:"group_id"`
	QuestionText string `json:"question_text"`
	IsRequired   bool   `json:"is_required,omitempty"`
}

func (s *GroupService) CreateQuestion(ctx context.Context, input CreateQuestionInput) (*models.MembershipQuestion, error) {
	var question models.MembershipQuestion
	if err := s.api.Post(ctx, "/membership-questions", input, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *GroupService) DeleteQuestion(ctx context.Context, questionID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/membership-questions/%d", questionID), nil)
}
