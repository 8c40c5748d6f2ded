package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"gorm.io/gorm"
)

type workerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository creates a new worker repository
func NewWorkerRepository(db *gorm.DB) domainRepo.WorkerRepository {
	return &workerRepository{db: db}
}

func (r *workerRepository) Create(ctx context.Context, worker *entity.Worker) error {
	return conn(ctx, r.db).Create(worker).Error
}

func (r *workerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Worker, error) {
	var worker entity.Worker
	err := conn(ctx, r.db).First(&worker, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &worker, err
}

func (r *workerRepository) Update(ctx context.Context, worker *entity.Worker) error {
	return conn(ctx, r.db).Save(worker).Error
}

func (r *workerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Worker{}, "id = ?", id).Error
}

func (r *workerRepository) List(ctx context.Context, params *domainRepo.WorkerFilterParams) ([]entity.Worker, int64, error) {
	var workers []entity.Worker
	var total int64

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	query := conn(ctx, r.db).Model(&entity.Worker{})
	if params.Search != "" {
		pattern := contains(params.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(role) LIKE ?", pattern, pattern)
	}
	if params.PaymentType != nil {
		query = query.Where("payment_type = ?", *params.PaymentType)
	}
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&workers).Error

	return workers, total, err
}

func (r *workerRepository) ListRoster(ctx context.Context, activeOnly bool) ([]entity.Worker, error) {
	var workers []entity.Worker
	query := conn(ctx, r.db)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&workers).Error
	return workers, err
}

func (r *workerRepository) UpdateCommissionRate(ctx context.Context, id uuid.UUID, rate float64) error {
	result := conn(ctx, r.db).Model(&entity.Worker{}).
		Where("id = ?", id).
		Update("commission_rate", rate)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service log repository
func NewServiceRepository(db *gorm.DB) domainRepo.ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	return conn(ctx, r.db).Create(service).Error
}

func (r *serviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	var service entity.Service
	err := conn(ctx, r.db).
		Preload("Worker").Preload("Customer").
		First(&service, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &service, err
}

func (r *serviceRepository) Update(ctx context.Context, service *entity.Service) error {
	return conn(ctx, r.db).Omit("Worker", "Customer").Save(service).Error
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Service{}, "id = ?", id).Error
}

func (r *serviceRepository) List(ctx context.Context, params *domainRepo.ServiceFilterParams) ([]entity.Service, int64, error) {
	var services []entity.Service
	var total int64

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	query := conn(ctx, r.db).Model(&entity.Service{})
	if params.WorkerID != nil {
		query = query.Where("worker_id = ?", *params.WorkerID)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", contains(params.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Worker").Preload("Customer").
		Order("created_at DESC").
		Find(&services).Error

	return services, total, err
}

func (r *serviceRepository) ListCompleted(ctx context.Context, workerID *uuid.UUID) ([]entity.Service, error) {
	var services []entity.Service
	query := conn(ctx, r.db).Where("status = ?", enum.ServiceStatusCompleted)
	if workerID != nil {
		query = query.Where("worker_id = ?", *workerID)
	}
	err := query.Order("completed_at DESC").Find(&services).Error
	return services, err
}

func (r *serviceRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Service, error) {
	var services []entity.Service
	err := conn(ctx, r.db).
		Preload("Worker").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&services).Error
	return services, err
}

func (r *serviceRepository) UpdateCommissionRate(ctx context.Context, id uuid.UUID, rate *float64) error {
	result := conn(ctx, r.db).Model(&entity.Service{}).
		Where("id = ?", id).
		Update("commission_rate", rate)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
