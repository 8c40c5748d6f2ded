package repository

import (
	"context"

	"github.com/google/uuid"
)

// TopProductResult is a retail product's checkout performance
type TopProductResult struct {
	ItemID       uuid.UUID
	Name         string
	QuantitySold int
	Revenue      int64
}

// TopCustomerResult is a customer's spend on completed services
type TopCustomerResult struct {
	CustomerID   uuid.UUID
	CustomerName string
	TotalSpent   int64
	VisitCount   int
}

// AnalyticsRepository defines aggregation queries that are cheaper in SQL
type AnalyticsRepository interface {
	GetTopProducts(ctx context.Context, limit int) ([]TopProductResult, error)
	GetTopCustomers(ctx context.Context, limit int) ([]TopCustomerResult, error)
}
