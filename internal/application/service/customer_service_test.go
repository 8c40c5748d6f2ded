package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	infraRepo "github.com/sangkips/salonpro-api/internal/infrastructure/repository"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCustomerService(env *testEnv) *CustomerService {
	return NewCustomerService(infraRepo.NewCustomerRepository(env.db), infraRepo.NewServiceRepository(env.db),
		env.publisher, zap.NewNop())
}

func TestCustomerCRUD(t *testing.T) {
	env := newTestEnv(t)
	svc := newCustomerService(env)
	ctx := context.Background()

	phone := " 0712345678 "
	jane, err := svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "Jane", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "0712345678", *jane.Phone)

	_, err = svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "Impostor", Phone: ptr("0712345678")})
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	_, err = svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "  "})
	assert.Equal(t, "name", apperror.GetAppError(err).Errors[0].Field)

	updated, err := svc.UpdateCustomer(ctx, &UpdateCustomerInput{ID: jane.ID, Name: ptr("Jane W"), Phone: ptr("0712345678")})
	require.NoError(t, err)
	assert.Equal(t, "Jane W", updated.Name)

	page, err := svc.ListCustomers(ctx, pagination.DefaultPagination(), "jane")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, svc.DeleteCustomer(ctx, jane.ID))
	_, err = svc.GetCustomer(ctx, jane.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestCustomerHistory(t *testing.T) {
	env := newTestEnv(t)
	svc := newCustomerService(env)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "Jane"})
	require.NoError(t, err)
	worker := testutil.CreateWorker(t, env.db, "Amina", 10)

	done := testutil.CreateCompletedService(t, env.db, worker, 150000, time.Now())
	require.NoError(t, env.db.Model(done).Update("customer_id", customer.ID).Error)
	pending := &entity.Service{Name: "Nails", Price: 80000, WorkerID: worker.ID, CustomerID: &customer.ID, Status: enum.ServiceStatusPending}
	require.NoError(t, env.db.Create(pending).Error)

	history, err := svc.GetServiceHistory(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, history.Services, 2)
	assert.Equal(t, 1, history.VisitCount)
	assert.Equal(t, 1500.0, history.TotalSpent)
}

