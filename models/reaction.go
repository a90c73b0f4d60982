package models

import (
	"time"

	"gorm.io/gorm"
)

// ReactionType enumerates supported reactions. Only LIKE is used today.
type ReactionType string

const ReactionLike ReactionType = "LIKE"

// Reaction records one user's reaction to a reactable target.
// A user can hold at most one reaction per target.
type Reaction struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ReactorUserID uint           `gorm:"not null;uniqueIndex:idx_reactor_target" json:"reactor_user_id"`
	ReactableID   uint           `gorm:"not null;uniqueIndex:idx_reactor_target" json:"reactable_id"`
	ReactableType TargetKind     `gorm:"type:varchar(8);not null;uniqueIndex:idx_reactor_target" json:"reactable_type"`
	ReactionType  ReactionType   `gorm:"type:varchar(16);default:'LIKE'" json:"reaction_type"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
