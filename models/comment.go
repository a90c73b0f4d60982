package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to a commentable target (post or file). A comment with a
// ParentCommentID set is a reply; replies nest exactly one level deep.
type Comment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CommentableID   uint           `gorm:"not null;index:idx_commentable" json:"commentable_id"`
	CommentableType TargetKind     `gorm:"type:varchar(8);not null;index:idx_commentable" json:"commentable_type"`
	ParentCommentID *uint          `gorm:"index" json:"parent_comment_id,omitempty"`
	AuthorID        uint           `gorm:"not null" json:"author_id"`
	Author          User           `gorm:"foreignKey:AuthorID" json:"author"`
	TextContent     string         `gorm:"not null" json:"text_content"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
