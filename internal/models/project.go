package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is the root of ownership; everything below it is reached through UserID.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Description *string
	Style       string `gorm:"not null"`
	Rooms       []Room `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

var Styles = []string{
	"MODERN",
	"SCANDINAVIAN",
	"INDUSTRIAL",
	"MINIMALIST",
	"BOHEMIAN",
	"TRADITIONAL",
	"MID_CENTURY",
	"RUSTIC",
	"COASTAL",
	"CONTEMPORARY",
}

func IsValidStyle(style string) bool {
	return contains(Styles, style)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
