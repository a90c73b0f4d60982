package models

import (
	"time"

	"gorm.io/gorm"
)

// PrivacySetting controls who may see a post.
type PrivacySetting string

const (
	PrivacyPublic  PrivacySetting = "PUBLIC"
	PrivacyFriends PrivacySetting = "FRIENDS"
	PrivacyOnlyMe  PrivacySetting = "ONLY_ME"
)

// PostStats carries aggregated counts computed at query time.
type PostStats struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// Post is a feed entry authored by a user, optionally scoped to a group or page.
type Post struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	AuthorID     uint           `gorm:"not null;index" json:"author_id"`
	Author       User           `gorm:"foreignKey:AuthorID" json:"author"`
	TextContent  string         `gorm:"not null" json:"text_content"`
	Privacy      PrivacySetting `gorm:"type:varchar(16);default:'PUBLIC'" json:"privacy_setting"`
	GroupID      *uint          `gorm:"index" json:"group_id,omitempty"`
	PageID       *uint          `gorm:"index" json:"page_id,omitempty"`
	SharedPostID *uint          `json:"shared_post_id,omitempty"`
	Files        []File         `gorm:"many2many:post_files" json:"files"`
	// Stats and IsLikedByMe are not persisted; computed per request for the
	// requesting user. On the client they seed the optimistic interaction
	// state and may transiently diverge from server truth until the
	// containing list reloads.
	Stats       PostStats      `gorm:"-" json:"stats"`
	IsLikedByMe bool           `gorm:"-" json:"is_liked_by_me"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
