package models

import (
	"time"
)

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipPending indicates a request awaiting the addressee's decision.
	FriendshipPending FriendshipStatus = "PENDING"
	// FriendshipAccepted indicates an established friendship.
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
)

// Friendship represents a relationship between two users. The requester is
// the user who initiated it; direction matters while the request is pending.
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;uniqueIndex:idx_friend_pair" json:"requester_id"`
	AddresseeID uint             `gorm:"not null;uniqueIndex:idx_friend_pair" json:"addressee_id"`
	Status      FriendshipStatus `gorm:"type:varchar(16);default:'PENDING'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Requester User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee User `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

// Other returns the user on the far side of the friendship from userID.
func (f *Friendship) Other(userID uint) User {
	if f.RequesterID == userID {
		return f.Addressee
	}
	return f.Requester
}
