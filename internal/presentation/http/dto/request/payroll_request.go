package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
)

// CreateWorkerRequest represents a worker creation request
type CreateWorkerRequest struct {
	Name           string           `json:"name" binding:"required,min=2,max=255"`
	Role           string           `json:"role" binding:"max=100"`
	Phone          *string          `json:"phone" binding:"omitempty,max=50"`
	Email          *string          `json:"email" binding:"omitempty,email"`
	PaymentType    enum.PaymentType `json:"payment_type"`
	Salary         float64          `json:"salary" binding:"min=0"`
	CommissionRate float64          `json:"commission_rate" binding:"min=0,max=100"`
	HiredAt        *time.Time       `json:"hired_at"`
}

// UpdateWorkerRequest represents a worker update request
type UpdateWorkerRequest struct {
	Name        *string           `json:"name" binding:"omitempty,min=2,max=255"`
	Role        *string           `json:"role" binding:"omitempty,max=100"`
	Phone       *string           `json:"phone" binding:"omitempty,max=50"`
	Email       *string           `json:"email" binding:"omitempty,email"`
	PaymentType *enum.PaymentType `json:"payment_type"`
	Salary      *float64          `json:"salary" binding:"omitempty,min=0"`
	IsActive    *bool             `json:"is_active"`
}

// CommissionRateRequest sets a rate. A null rate clears a service override.
type CommissionRateRequest struct {
	CommissionRate *float64 `json:"commission_rate" binding:"omitempty,min=0,max=100"`
}

// WorkerFilterRequest represents worker filter parameters
type WorkerFilterRequest struct {
	Search      string `form:"search"`
	PaymentType string `form:"payment_type"`
	ActiveOnly  bool   `form:"active_only"`
	Page        int    `form:"page"`
	PerPage     int    `form:"per_page"`
}

// RecordServiceRequest logs a service, completed or booked
type RecordServiceRequest struct {
	Name           string     `json:"name" binding:"required,max=255"`
	Price          float64    `json:"price" binding:"min=0"`
	WorkerID       uuid.UUID  `json:"worker_id" binding:"required"`
	CustomerID     *uuid.UUID `json:"customer_id"`
	CommissionRate *float64   `json:"commission_rate" binding:"omitempty,min=0,max=100"`
	Notes          *string    `json:"notes"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// ServiceFilterRequest represents service log filter parameters
type ServiceFilterRequest struct {
	Search     string `form:"search"`
	WorkerID   string `form:"worker_id"`
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CustomerRequest creates or updates a customer
type CustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	Email *string `json:"email" binding:"omitempty,email"`
	Notes *string `json:"notes"`
}
