package models

import (
	"time"

	"gorm.io/gorm"
)

// RSVPStatus is a user's attendance answer for an event.
type RSVPStatus string

const (
	RSVPGoing      RSVPStatus = "GOING"
	RSVPInterested RSVPStatus = "INTERESTED"
	RSVPDeclined   RSVPStatus = "DECLINED"
)

// Event is a scheduled gathering hosted by a user.
type Event struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	StartTime   time.Time      `gorm:"not null" json:"start_time"`
	EndTime     *time.Time     `json:"end_time,omitempty"`
	HostID      uint           `gorm:"not null;index" json:"host_id"`
	Host        User           `gorm:"foreignKey:HostID" json:"host"`
	GoingCount  int            `gorm:"-" json:"going_count"`
	MyRSVP      RSVPStatus     `gorm:"-" json:"my_rsvp,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// EventParticipant records one user's RSVP for an event.
type EventParticipant struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	EventID   uint       `gorm:"not null;uniqueIndex:idx_event_participant" json:"event_id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_event_participant" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user"`
	Status    RSVPStatus `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
