package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Worker is a stylist, therapist or other staff member who performs services.
// Earnings are derived from the service log and never stored.
type Worker struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name           string           `gorm:"size:255;not null" json:"name"`
	Role           string           `gorm:"size:100" json:"role"`
	Phone          *string          `gorm:"size:50" json:"phone,omitempty"`
	Email          *string          `gorm:"size:255" json:"email,omitempty"`
	PaymentType    enum.PaymentType `gorm:"size:20;not null;default:'commission'" json:"payment_type"`
	Salary         int64            `gorm:"default:0" json:"-"` // Stored in cents
	CommissionRate float64          `gorm:"default:0" json:"commission_rate"`
	IsActive       bool             `gorm:"default:true" json:"is_active"`
	HiredAt        *time.Time       `json:"hired_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (w Worker) MarshalJSON() ([]byte, error) {
	type Alias Worker
	return json.Marshal(&struct {
		Alias
		Salary float64 `json:"salary"`
	}{
		Alias:  Alias(w),
		Salary: float64(w.Salary) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new worker
func (w *Worker) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (Worker) TableName() string {
	return "workers"
}

// IsCommissioned reports whether the worker is paid per service
func (w *Worker) IsCommissioned() bool {
	return w.PaymentType == enum.PaymentTypeCommission
}
