// Package models contains data structures for the application's domain models.
// The same structs serve as GORM storage models on the devserver and as JSON
// decode targets on the client, so the wire contract lives in one place.
package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// User represents an account. Password never crosses the wire.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string         `gorm:"not null" json:"display_name"`
	AvatarURL   string         `json:"avatar_url"`
	Bio         string         `json:"bio,omitempty"`
	IsAdmin     bool           `gorm:"default:false" json:"is_admin"`
	Password    string         `gorm:"not null" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuthSession is the normalized result of a login/register call.
// User is nil when the deployment requires a follow-up "who am I" call;
// Token is empty when the deployment does not auto-login on register.
type AuthSession struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// ParseAuthSession normalizes the two auth response shapes seen in the wild:
// {"token": "...", "user": {...}} and a bare user object with an optional
// top-level token field. Shape variance is handled here, at the contract
// boundary, so callers always see one typed result.
func ParseAuthSession(data []byte) (*AuthSession, error) {
	var sess AuthSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.User == nil {
		var u User
		if err := json.Unmarshal(data, &u); err == nil && u.ID != 0 {
			sess.User = &u
		}
	}
	return &sess, nil
}
