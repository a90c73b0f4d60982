package models

import "time"

// Role is an assignable account role surfaced in the admin panel.
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"role_id"`
	Name        string `gorm:"uniqueIndex;not null" json:"role_name"`
	Description string `json:"description"`
}

// ActiveUserStat is one row of the admin activity report: users with at
// least min_posts posts in the given year, scored by overall activity.
type ActiveUserStat struct {
	UserID        uint    `json:"user_id"`
	Email         string  `json:"email"`
	TotalPosts    int     `json:"total_posts"`
	ActivityScore float64 `json:"activity_score"`
}

// SentimentPost is a post annotated with a lexicon sentiment score in [-1, 1],
// used by the admin moderation view.
type SentimentPost struct {
	PostID      uint      `json:"post_id"`
	AuthorID    uint      `json:"author_id"`
	AuthorEmail string    `json:"author_email"`
	TextContent string    `json:"text_content"`
	Score       float64   `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}
