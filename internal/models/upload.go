package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upload is a photo a user stored in the artifact store.
type Upload struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	RoomID     *uuid.UUID `gorm:"type:uuid;index"`
	Filename   string     `gorm:"not null"`
	URL        string     `gorm:"not null"`
	StorageKey string     `gorm:"not null"`
	Size       int64      `gorm:"not null"`
	MimeType   string     `gorm:"not null"`
	CreatedAt  time.Time
}

func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

func IsAllowedImageType(mimeType string) bool {
	return contains(AllowedImageTypes, mimeType)
}
