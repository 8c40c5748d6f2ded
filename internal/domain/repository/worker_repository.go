package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/pkg/pagination"
)

// WorkerRepository defines the interface for worker data operations
type WorkerRepository interface {
	Create(ctx context.Context, worker *entity.Worker) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Worker, error)
	Update(ctx context.Context, worker *entity.Worker) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *WorkerFilterParams) ([]entity.Worker, int64, error)
	// ListRoster returns every worker, active ones only when activeOnly is set
	ListRoster(ctx context.Context, activeOnly bool) ([]entity.Worker, error)
	UpdateCommissionRate(ctx context.Context, id uuid.UUID, rate float64) error
}

// WorkerFilterParams contains filtering parameters for worker queries
type WorkerFilterParams struct {
	Pagination  *pagination.PaginationParams
	Search      string
	PaymentType *enum.PaymentType
	ActiveOnly  bool
}

// ServiceRepository defines the interface for the service log
type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	Update(ctx context.Context, service *entity.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ServiceFilterParams) ([]entity.Service, int64, error)
	// ListCompleted returns every completed service, optionally for one worker
	ListCompleted(ctx context.Context, workerID *uuid.UUID) ([]entity.Service, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Service, error)
	// UpdateCommissionRate sets or clears (nil) the per-service override
	UpdateCommissionRate(ctx context.Context, id uuid.UUID, rate *float64) error
}

// ServiceFilterParams contains filtering parameters for service queries
type ServiceFilterParams struct {
	Pagination *pagination.PaginationParams
	WorkerID   *uuid.UUID
	CustomerID *uuid.UUID
	Status     *enum.ServiceStatus
	Search     string
}
