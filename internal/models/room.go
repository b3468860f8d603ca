package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room dimensions are in metres.
type Room struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"not null"`
	Type         string    `gorm:"not null"`
	Length       float64   `gorm:"not null"`
	Width        float64   `gorm:"not null"`
	Height       float64   `gorm:"not null"`
	Materials    datatypes.JSONSlice[string]
	AmbientColor *string
	ImageURL     *string
	ImageKey     *string
	Designs      []Design `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RoomWithOwner pairs a room with the project it hangs off.
type RoomWithOwner struct {
	Room    Room
	Project Project
}

var RoomTypes = []string{
	"BEDROOM",
	"LIVING_ROOM",
	"KITCHEN",
	"BATHROOM",
	"DINING_ROOM",
	"OFFICE",
	"KIDS_ROOM",
	"HALLWAY",
}

func IsValidRoomType(roomType string) bool {
	return contains(RoomTypes, roomType)
}
