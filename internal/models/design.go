package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DesignStatus string

const (
	DesignStatusPending    DesignStatus = "PENDING"
	DesignStatusProcessing DesignStatus = "PROCESSING"
	DesignStatusCompleted  DesignStatus = "COMPLETED"
	DesignStatusFailed     DesignStatus = "FAILED"
)

func (s DesignStatus) IsTerminal() bool {
	return s == DesignStatusCompleted || s == DesignStatusFailed
}

func IsValidDesignStatus(s string) bool {
	switch DesignStatus(s) {
	case DesignStatusPending, DesignStatusProcessing, DesignStatusCompleted, DesignStatusFailed:
		return true
	}
	return false
}

const (
	ProviderOpenAI    = "OPENAI"
	ProviderReplicate = "REPLICATE"
)

var AIProviders = []string{ProviderOpenAI, ProviderReplicate}

func IsValidAIProvider(p string) bool {
	return contains(AIProviders, p)
}

// Design is one generation attempt for a room. Regeneration creates a new row.
type Design struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey"`
	RoomID         uuid.UUID    `gorm:"type:uuid;not null;index"`
	ImageURL       string       `gorm:"not null;default:''"`
	Prompt         string       `gorm:"not null;default:''"`
	AIProvider     string       `gorm:"column:ai_provider;not null"`
	Status         DesignStatus `gorm:"not null;index"`
	Metadata       datatypes.JSONMap
	ProcessingTime *int64
	ErrorMessage   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (d *Design) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DesignResult is what a successful generation writes onto the row.
type DesignResult struct {
	ImageURL       string
	Prompt         string
	Metadata       map[string]interface{}
	ProcessingTime int64
}

type DesignFilter struct {
	RoomID     *uuid.UUID
	Status     *DesignStatus
	AIProvider *string
}
