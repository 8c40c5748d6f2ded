package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/payroll"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/money"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"go.uber.org/zap"
)

// PayrollService manages workers, the service log and the earnings derived from it
type PayrollService struct {
	workerRepo   repository.WorkerRepository
	serviceRepo  repository.ServiceRepository
	customerRepo repository.CustomerRepository
	notifier     changeNotifier
	loc          *time.Location
	now          func() time.Time
	log          *zap.Logger
}

// NewPayrollService creates a new payroll service. loc decides where
// calendar months and days begin.
func NewPayrollService(
	workerRepo repository.WorkerRepository,
	serviceRepo repository.ServiceRepository,
	customerRepo repository.CustomerRepository,
	publisher repository.ChangePublisher,
	loc *time.Location,
	log *zap.Logger,
) *PayrollService {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollService{
		workerRepo:   workerRepo,
		serviceRepo:  serviceRepo,
		customerRepo: customerRepo,
		notifier:     newChangeNotifier(publisher, log),
		loc:          loc,
		now:          time.Now,
		log:          log,
	}
}

func (s *PayrollService) clock() time.Time {
	return s.now().In(s.loc)
}

// WorkerEarnings is a worker with derived pay figures in currency units
type WorkerEarnings struct {
	Worker               *entity.Worker   `json:"worker"`
	TotalEarnings        float64          `json:"total_earnings"`
	CurrentMonthEarnings float64          `json:"current_month_earnings"`
	ServicesPerformed    int              `json:"services_performed"`
	Earnings             payroll.Earnings `json:"-"`
}

func newWorkerEarnings(w *entity.Worker, e payroll.Earnings) WorkerEarnings {
	return WorkerEarnings{
		Worker:               w,
		TotalEarnings:        money.ToDecimal(e.TotalEarnings),
		CurrentMonthEarnings: money.ToDecimal(e.CurrentMonthEarnings),
		ServicesPerformed:    e.ServicesPerformed,
		Earnings:             e,
	}
}

// PayrollSummary is the roster's earnings for one calendar month
type PayrollSummary struct {
	Month        string           `json:"month"`
	Workers      []WorkerEarnings `json:"workers"`
	TotalPayroll float64          `json:"total_payroll"`
	TotalCents   int64            `json:"-"`
}

// DailyEarningsEntry is one day of a worker's commission feed
type DailyEarningsEntry struct {
	Date         string  `json:"date"`
	Commission   float64 `json:"commission"`
	ServiceCount int     `json:"service_count"`
}

// CreateWorkerInput represents the create worker input
type CreateWorkerInput struct {
	Name           string
	Role           string
	Phone          *string
	Email          *string
	PaymentType    enum.PaymentType
	Salary         float64
	CommissionRate float64
	HiredAt        *time.Time
}

func validateRate(field string, rate float64) error {
	if rate < 0 || rate > 100 {
		return apperror.NewFieldError(field, "Commission rate must be between 0 and 100")
	}
	return nil
}

// CreateWorker adds a worker to the roster
func (s *PayrollService) CreateWorker(ctx context.Context, input *CreateWorkerInput) (*entity.Worker, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}
	paymentType := input.PaymentType
	if paymentType == "" {
		paymentType = enum.PaymentTypeCommission
	}
	if !paymentType.IsValid() {
		return nil, apperror.NewFieldError("payment_type", "Payment type must be monthly or commission")
	}
	if err := validateRate("commission_rate", input.CommissionRate); err != nil {
		return nil, err
	}
	if input.Salary < 0 {
		return nil, apperror.NewFieldError("salary", "Salary cannot be negative")
	}

	worker := &entity.Worker{
		Name:           name,
		Role:           strings.TrimSpace(input.Role),
		Phone:          trimmedOrNil(input.Phone),
		Email:          trimmedOrNil(input.Email),
		PaymentType:    paymentType,
		Salary:         money.FromDecimal(input.Salary),
		CommissionRate: input.CommissionRate,
		IsActive:       true,
		HiredAt:        input.HiredAt,
	}
	if err := s.workerRepo.Create(ctx, worker); err != nil {
		s.log.Error("Failed to create worker", zap.String("name", name), zap.Error(err))
		return nil, apperror.Wrap(err, "Failed to create worker")
	}

	s.notifier.notify(ctx, repository.TableWorkers, repository.ChangeInsert, worker.ID)
	return worker, nil
}

// GetWorker retrieves a worker by ID
func (s *PayrollService) GetWorker(ctx context.Context, id uuid.UUID) (*entity.Worker, error) {
	worker, err := s.workerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load worker")
	}
	if worker == nil {
		return nil, apperror.NewNotFoundError("Worker")
	}
	return worker, nil
}

// ListWorkers lists workers with filtering
func (s *PayrollService) ListWorkers(ctx context.Context, params *repository.WorkerFilterParams) (*pagination.PaginatedResult[entity.Worker], error) {
	workers, total, err := s.workerRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list workers")
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(workers, pag), nil
}

// UpdateWorkerInput represents the update worker input
type UpdateWorkerInput struct {
	ID          uuid.UUID
	Name        *string
	Role        *string
	Phone       *string
	Email       *string
	PaymentType *enum.PaymentType
	Salary      *float64
	IsActive    *bool
}

// UpdateWorker updates a worker's profile. The commission rate has its own
// operation because changing it recomputes earnings.
func (s *PayrollService) UpdateWorker(ctx context.Context, input *UpdateWorkerInput) (*entity.Worker, error) {
	worker, err := s.GetWorker(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "Name is required")
		}
		worker.Name = name
	}
	if input.Role != nil {
		worker.Role = strings.TrimSpace(*input.Role)
	}
	if input.Phone != nil {
		worker.Phone = trimmedOrNil(input.Phone)
	}
	if input.Email != nil {
		worker.Email = trimmedOrNil(input.Email)
	}
	if input.PaymentType != nil {
		if !input.PaymentType.IsValid() {
			return nil, apperror.NewFieldError("payment_type", "Payment type must be monthly or commission")
		}
		worker.PaymentType = *input.PaymentType
	}
	if input.Salary != nil {
		if *input.Salary < 0 {
			return nil, apperror.NewFieldError("salary", "Salary cannot be negative")
		}
		worker.Salary = money.FromDecimal(*input.Salary)
	}
	if input.IsActive != nil {
		worker.IsActive = *input.IsActive
	}

	if err := s.workerRepo.Update(ctx, worker); err != nil {
		return nil, apperror.Wrap(err, "Failed to update worker")
	}

	s.notifier.notify(ctx, repository.TableWorkers, repository.ChangeUpdate, worker.ID)
	return worker, nil
}

// DeleteWorker removes a worker from the roster; their service log stays
func (s *PayrollService) DeleteWorker(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetWorker(ctx, id); err != nil {
		return err
	}
	if err := s.workerRepo.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, "Failed to delete worker")
	}
	s.notifier.notify(ctx, repository.TableWorkers, repository.ChangeDelete, id)
	return nil
}

// GetWorkerEarnings recomputes a worker's earnings from the full service log
func (s *PayrollService) GetWorkerEarnings(ctx context.Context, id uuid.UUID) (*WorkerEarnings, error) {
	worker, err := s.GetWorker(ctx, id)
	if err != nil {
		return nil, err
	}

	services, err := s.serviceRepo.ListCompleted(ctx, &worker.ID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load services")
	}

	earnings := newWorkerEarnings(worker, payroll.Compute(worker, services, s.clock()))
	return &earnings, nil
}

// ListRosterEarnings computes earnings for the roster as of now
func (s *PayrollService) ListRosterEarnings(ctx context.Context, activeOnly bool) (*PayrollSummary, error) {
	return s.summary(ctx, activeOnly, s.clock())
}

// MonthlySummary computes the roster's figures for the calendar month
// containing month. Lifetime totals still cover every service.
func (s *PayrollService) MonthlySummary(ctx context.Context, month time.Time) (*PayrollSummary, error) {
	m := month.In(s.loc)
	asOf := time.Date(m.Year(), m.Month(), 1, 12, 0, 0, 0, s.loc)
	return s.summary(ctx, false, asOf)
}

func (s *PayrollService) summary(ctx context.Context, activeOnly bool, asOf time.Time) (*PayrollSummary, error) {
	workers, err := s.workerRepo.ListRoster(ctx, activeOnly)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load workers")
	}
	services, err := s.serviceRepo.ListCompleted(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load services")
	}

	roster := payroll.ComputeRoster(workers, services, asOf)
	out := &PayrollSummary{
		Month:   asOf.Format("2006-01"),
		Workers: make([]WorkerEarnings, len(roster)),
	}
	for i := range roster {
		out.Workers[i] = newWorkerEarnings(&workers[i], roster[i])
	}
	out.TotalCents = payroll.MonthlyPayroll(roster)
	out.TotalPayroll = money.ToDecimal(out.TotalCents)
	return out, nil
}

// GetDailyEarnings returns the worker's per-day commission for the last
// days calendar days, newest first.
func (s *PayrollService) GetDailyEarnings(ctx context.Context, id uuid.UUID, days int) ([]DailyEarningsEntry, error) {
	if days <= 0 {
		days = 30
	}
	worker, err := s.GetWorker(ctx, id)
	if err != nil {
		return nil, err
	}
	services, err := s.serviceRepo.ListCompleted(ctx, &worker.ID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load services")
	}

	daily := payroll.LastNDays(payroll.GroupDaily(worker, services, s.loc), days, s.clock())
	out := make([]DailyEarningsEntry, len(daily))
	for i, d := range daily {
		out[i] = DailyEarningsEntry{
			Date:         d.Date.Format("2006-01-02"),
			Commission:   money.ToDecimal(d.Commission),
			ServiceCount: d.ServiceCount,
		}
	}
	return out, nil
}

// UpdateWorkerCommissionRate persists the worker's default rate and returns
// freshly recomputed earnings.
func (s *PayrollService) UpdateWorkerCommissionRate(ctx context.Context, id uuid.UUID, rate float64) (*WorkerEarnings, error) {
	if err := validateRate("commission_rate", rate); err != nil {
		return nil, err
	}
	if _, err := s.GetWorker(ctx, id); err != nil {
		return nil, err
	}
	if err := s.workerRepo.UpdateCommissionRate(ctx, id, rate); err != nil {
		s.log.Error("Failed to update worker commission rate", zap.String("worker_id", id.String()), zap.Error(err))
		return nil, apperror.Wrap(err, "Failed to update commission rate")
	}

	s.notifier.notify(ctx, repository.TableWorkers, repository.ChangeUpdate, id)
	return s.GetWorkerEarnings(ctx, id)
}

// UpdateServiceCommissionRate sets or clears a service's override and
// returns its worker's recomputed earnings.
func (s *PayrollService) UpdateServiceCommissionRate(ctx context.Context, serviceID uuid.UUID, rate *float64) (*WorkerEarnings, error) {
	if rate != nil {
		if err := validateRate("commission_rate", *rate); err != nil {
			return nil, err
		}
	}
	service, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if err := s.serviceRepo.UpdateCommissionRate(ctx, serviceID, rate); err != nil {
		s.log.Error("Failed to update service commission rate", zap.String("service_id", serviceID.String()), zap.Error(err))
		return nil, apperror.Wrap(err, "Failed to update commission rate")
	}

	s.notifier.notify(ctx, repository.TableServices, repository.ChangeUpdate, serviceID)
	return s.GetWorkerEarnings(ctx, service.WorkerID)
}

// RecordServiceInput represents a service performed or booked
type RecordServiceInput struct {
	UserID         uuid.UUID
	Name           string
	Price          float64
	WorkerID       uuid.UUID
	CustomerID     *uuid.UUID
	CommissionRate *float64
	Notes          *string
	Completed      bool
	CompletedAt    *time.Time
}

// RecordService adds a service to the log, completed or pending
func (s *PayrollService) RecordService(ctx context.Context, input *RecordServiceInput) (*entity.Service, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}
	if input.Price < 0 {
		return nil, apperror.NewFieldError("price", "Price cannot be negative")
	}
	if input.CommissionRate != nil {
		if err := validateRate("commission_rate", *input.CommissionRate); err != nil {
			return nil, err
		}
	}
	if _, err := s.GetWorker(ctx, input.WorkerID); err != nil {
		return nil, err
	}
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to load customer")
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	service := &entity.Service{
		Name:           name,
		Price:          money.FromDecimal(input.Price),
		WorkerID:       input.WorkerID,
		CustomerID:     input.CustomerID,
		Status:         enum.ServiceStatusPending,
		CommissionRate: input.CommissionRate,
		Notes:          input.Notes,
		CreatedBy:      input.UserID,
	}
	if input.Completed || input.CompletedAt != nil {
		at := s.now()
		if input.CompletedAt != nil {
			at = *input.CompletedAt
		}
		service.Status = enum.ServiceStatusCompleted
		service.CompletedAt = &at
	}

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		s.log.Error("Failed to record service", zap.String("worker_id", input.WorkerID.String()), zap.Error(err))
		return nil, apperror.Wrap(err, "Failed to record service")
	}

	s.notifier.notify(ctx, repository.TableServices, repository.ChangeInsert, service.ID)
	return s.GetService(ctx, service.ID)
}

// GetService retrieves a service with its worker and customer
func (s *PayrollService) GetService(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load service")
	}
	if service == nil {
		return nil, apperror.NewNotFoundError("Service")
	}
	return service, nil
}

// ListServices lists the service log with filtering
func (s *PayrollService) ListServices(ctx context.Context, params *repository.ServiceFilterParams) (*pagination.PaginatedResult[entity.Service], error) {
	services, total, err := s.serviceRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list services")
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(services, pag), nil
}

// CompleteService marks a pending service completed now
func (s *PayrollService) CompleteService(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	return s.transition(ctx, id, enum.ServiceStatusCompleted)
}

// CancelService marks a pending service cancelled
func (s *PayrollService) CancelService(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	return s.transition(ctx, id, enum.ServiceStatusCancelled)
}

func (s *PayrollService) transition(ctx context.Context, id uuid.UUID, to enum.ServiceStatus) (*entity.Service, error) {
	service, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if service.Status != enum.ServiceStatusPending {
		return nil, apperror.NewConflictError("Only pending services can be " + string(to))
	}

	service.Status = to
	if to == enum.ServiceStatusCompleted {
		at := s.now()
		service.CompletedAt = &at
	}
	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, apperror.Wrap(err, "Failed to update service")
	}

	s.notifier.notify(ctx, repository.TableServices, repository.ChangeUpdate, service.ID)
	return service, nil
}

// DeleteService removes a service from the log
func (s *PayrollService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetService(ctx, id); err != nil {
		return err
	}
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, "Failed to delete service")
	}
	s.notifier.notify(ctx, repository.TableServices, repository.ChangeDelete, id)
	return nil
}
