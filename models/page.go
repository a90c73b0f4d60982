package models

import (
	"time"

	"gorm.io/gorm"
)

// PageRoleName is a user's administrative role on a page.
type PageRoleName string

const (
	PageRoleAdmin  PageRoleName = "ADMIN"
	PageRoleEditor PageRoleName = "EDITOR"
)

// Page is a public presence (brand, organization) that users can follow.
type Page struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"page_name"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	AvatarURL     string         `json:"avatar_url"`
	OwnerID       uint           `gorm:"not null" json:"owner_id"`
	FollowerCount int            `gorm:"-" json:"follower_count"`
	IsFollowedBy  bool           `gorm:"-" json:"is_followed_by_me"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// PageRole grants a user administrative rights on a page.
type PageRole struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	PageID    uint         `gorm:"not null;uniqueIndex:idx_page_role" json:"page_id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_page_role" json:"user_id"`
	User      User         `gorm:"foreignKey:UserID" json:"user"`
	Role      PageRoleName `gorm:"type:varchar(16);default:'EDITOR'" json:"role"`
	CreatedAt time.Time    `json:"created_at"`
}

// PageFollow records a user following a page.
type PageFollow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PageID    uint      `gorm:"not null;uniqueIndex:idx_page_follow" json:"page_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_page_follow" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
