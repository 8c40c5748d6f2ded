package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Service is one unit of salon work performed by a worker for a customer.
// CommissionRate, when set, overrides the worker's default rate.
type Service struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Name           string             `gorm:"size:255;not null" json:"name"`
	Price          int64              `gorm:"not null" json:"-"` // Stored in cents
	WorkerID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"worker_id"`
	CustomerID     *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Status         enum.ServiceStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CommissionRate *float64           `json:"commission_rate,omitempty"`
	Notes          *string            `gorm:"type:text" json:"notes,omitempty"`
	CompletedAt    *time.Time         `gorm:"index" json:"completed_at,omitempty"`
	CreatedBy      uuid.UUID          `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Worker   *Worker   `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (s Service) MarshalJSON() ([]byte, error) {
	type Alias Service
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(s),
		Price: float64(s.Price) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new service
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Service) TableName() string {
	return "services"
}

// IsCompleted reports whether the service counts toward earnings
func (s *Service) IsCompleted() bool {
	return s.Status == enum.ServiceStatusCompleted
}

// PerformedAt is the completion time, falling back to creation time
// for rows completed before completion stamps were recorded.
func (s *Service) PerformedAt() time.Time {
	if s.CompletedAt != nil {
		return *s.CompletedAt
	}
	return s.CreatedAt
}
