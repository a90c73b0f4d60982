package models

import (
	"time"

	"gorm.io/gorm"
)

// GroupPrivacy controls whether joining requires approval.
type GroupPrivacy string

const (
	GroupPublic  GroupPrivacy = "PUBLIC"
	GroupPrivate GroupPrivacy = "PRIVATE"
)

// GroupRole is a member's role within a group.
type GroupRole string

const (
	GroupRoleMember    GroupRole = "MEMBER"
	GroupRoleModerator GroupRole = "MODERATOR"
	GroupRoleAdmin     GroupRole = "ADMIN"
)

// MembershipStatus tracks the lifecycle of a group membership.
type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "PENDING"
	MembershipApproved MembershipStatus = "APPROVED"
	MembershipBanned   MembershipStatus = "BANNED"
)

// Group is a member community with rules and optional join questions.
type Group struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"group_name"`
	Description string         `json:"description"`
	Privacy     GroupPrivacy   `gorm:"type:varchar(16);default:'PUBLIC'" json:"privacy_type"`
	IsVisible   bool           `gorm:"default:true" json:"is_visible"`
	OwnerID     uint           `gorm:"not null" json:"owner_id"`
	MemberCount int            `gorm:"-" json:"member_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// GroupMember links a user to a group with a role and membership status.
type GroupMember struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	GroupID   uint             `gorm:"not null;uniqueIndex:idx_group_member" json:"group_id"`
	UserID    uint             `gorm:"not null;uniqueIndex:idx_group_member" json:"user_id"`
	User      User             `gorm:"foreignKey:UserID" json:"user"`
	Role      GroupRole        `gorm:"type:varchar(16);default:'MEMBER'" json:"role"`
	Status    MembershipStatus `gorm:"type:varchar(16);default:'APPROVED'" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// GroupRule is one ordered rule displayed on a group's about page.
type GroupRule struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	GroupID      uint      `gorm:"not null;index" json:"group_id"`
	Title        string    `gorm:"not null" json:"title"`
	Details      string    `json:"details"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// MembershipQuestion is asked when a user requests to join a group.
type MembershipQuestion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	GroupID      uint      `gorm:"not null;index" json:"group_id"`
	QuestionText string    `gorm:"not null" json:"question_text"`
	IsRequired   bool      `gorm:"default:false" json:"is_required"`
	CreatedAt    time.Time `json:"created_at"`
}

// MembershipAnswer is a join applicant's answer to a membership question.
type MembershipAnswer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	GroupID    uint      `gorm:"not null;index" json:"group_id"`
	UserID     uint      `gorm:"not null" json:"user_id"`
	AnswerText string    `json:"answer_text"`
	CreatedAt  time.Time `json:"created_at"`
}
