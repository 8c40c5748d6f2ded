package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/money"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"go.uber.org/zap"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	serviceRepo  repository.ServiceRepository
	notifier     changeNotifier
	log          *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	serviceRepo repository.ServiceRepository,
	publisher repository.ChangePublisher,
	log *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		serviceRepo:  serviceRepo,
		notifier:     newChangeNotifier(publisher, log),
		log:          log,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	UserID uuid.UUID
	Name   string
	Phone  *string
	Email  *string
	Notes  *string
}

// CreateCustomer creates a new customer. Phone numbers are unique.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}

	phone := trimmedOrNil(input.Phone)
	if err := s.ensurePhoneFree(ctx, phone, uuid.Nil); err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		Name:      name,
		Phone:     phone,
		Email:     trimmedOrNil(input.Email),
		Notes:     input.Notes,
		CreatedBy: input.UserID,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.log.Error("Failed to create customer", zap.Error(err))
		return nil, apperror.Wrap(err, "Failed to create customer")
	}

	s.notifier.notify(ctx, repository.TableCustomers, repository.ChangeInsert, customer.ID)
	return customer, nil
}

func (s *CustomerService) ensurePhoneFree(ctx context.Context, phone *string, self uuid.UUID) error {
	if phone == nil {
		return nil
	}
	existing, err := s.customerRepo.GetByPhone(ctx, *phone)
	if err != nil {
		return apperror.Wrap(err, "Failed to check phone")
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("A customer with this phone number already exists")
	}
	return nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load customer")
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers matching search on name, phone or email
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list customers")
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID    uuid.UUID
	Name  *string
	Phone *string
	Email *string
	Notes *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "Name is required")
		}
		customer.Name = name
	}
	if input.Phone != nil {
		phone := trimmedOrNil(input.Phone)
		if err := s.ensurePhoneFree(ctx, phone, customer.ID); err != nil {
			return nil, err
		}
		customer.Phone = phone
	}
	if input.Email != nil {
		customer.Email = trimmedOrNil(input.Email)
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, apperror.Wrap(err, "Failed to update customer")
	}

	s.notifier.notify(ctx, repository.TableCustomers, repository.ChangeUpdate, customer.ID)
	return customer, nil
}

// DeleteCustomer deletes a customer. Their services stay in the log.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, "Failed to delete customer")
	}
	s.notifier.notify(ctx, repository.TableCustomers, repository.ChangeDelete, id)
	return nil
}

// CustomerHistory is a customer's service history with spend totals
type CustomerHistory struct {
	Customer   *entity.Customer `json:"customer"`
	Services   []entity.Service `json:"services"`
	VisitCount int              `json:"visit_count"`
	TotalSpent float64          `json:"total_spent"`
}

// GetServiceHistory lists every service booked for the customer, newest
// first. Totals only count completed services.
func (s *CustomerService) GetServiceHistory(ctx context.Context, id uuid.UUID) (*CustomerHistory, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	services, err := s.serviceRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load service history")
	}

	history := &CustomerHistory{Customer: customer, Services: services}
	var spent int64
	for i := range services {
		if services[i].IsCompleted() {
			history.VisitCount++
			spent += services[i].Price
		}
	}
	history.TotalSpent = money.ToDecimal(spent)
	return history, nil
}
