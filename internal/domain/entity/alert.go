package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Alert flags an inventory item that needs attention. At most one open
// alert exists per item and type.
type Alert struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ItemID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"item_id"`
	Type       enum.AlertType `gorm:"size:20;not null;index" json:"type"`
	Message    string         `gorm:"size:500;not null" json:"message"`
	IsResolved bool           `gorm:"not null;index" json:"is_resolved"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	// Relationships
	Item *InventoryItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (Alert) TableName() string {
	return "alerts"
}
