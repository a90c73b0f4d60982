package models

import (
	"time"

	"gorm.io/gorm"
)

// File is an uploaded attachment. UUID is the public identifier returned by
// the upload endpoint; the numeric ID keys reactions and post associations.
type File struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"uniqueIndex;not null" json:"file_id"`
	URL         string         `json:"file_url"`
	ContentType string         `json:"file_type"`
	Size        int64          `json:"size"`
	UploaderID  uint           `gorm:"index" json:"uploader_id"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
