package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateItem inserts an inventory item with the given stock and price in cents
func CreateItem(t *testing.T, db *gorm.DB, name string, stock int, price int64) *entity.InventoryItem {
	t.Helper()
	item := &entity.InventoryItem{
		Name:         name,
		SKU:          "SKU-" + uuid.NewString()[:8],
		CurrentStock: stock,
		MinStock:     2,
		MaxStock:     100,
		UnitPrice:    price,
		Supplier:     "Salon Supplies Ltd",
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// CreateUser inserts a staff account
func CreateUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	user := &entity.User{FirstName: "Test", LastName: "Staff", Email: email, Username: email, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateWorker inserts a commission worker with the given default rate
func CreateWorker(t *testing.T, db *gorm.DB, name string, rate float64) *entity.Worker {
	t.Helper()
	worker := &entity.Worker{Name: name, Role: "Stylist", PaymentType: enum.PaymentTypeCommission, CommissionRate: rate, IsActive: true}
	require.NoError(t, db.Create(worker).Error)
	return worker
}

// CreateCompletedService inserts a completed service for worker at the given time
func CreateCompletedService(t *testing.T, db *gorm.DB, worker *entity.Worker, price int64, at time.Time) *entity.Service {
	t.Helper()
	service := &entity.Service{
		Name:        "Haircut",
		Price:       price,
		WorkerID:    worker.ID,
		Status:      enum.ServiceStatusCompleted,
		CompletedAt: &at,
	}
	require.NoError(t, db.Create(service).Error)
	return service
}

// StockOf reads the current stock counter straight from the table
func StockOf(t *testing.T, db *gorm.DB, itemID uuid.UUID) int {
	t.Helper()
	var item entity.InventoryItem
	require.NoError(t, db.First(&item, "id = ?", itemID).Error)
	return item.CurrentStock
}
