package repository

import (
	"context"

	"github.com/sangkips/salonpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := conn(ctx, r.db).Raw(`
		SELECT
			si.item_id AS item_id,
			MAX(si.name) AS name,
			COALESCE(SUM(si.quantity), 0) AS quantity_sold,
			COALESCE(SUM(si.total), 0) AS revenue
		FROM sale_items si
		GROUP BY si.item_id
		ORDER BY revenue DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *analyticsRepository) GetTopCustomers(ctx context.Context, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := conn(ctx, r.db).Raw(`
		SELECT
			c.id AS customer_id,
			c.name AS customer_name,
			COALESCE(SUM(s.price), 0) AS total_spent,
			COUNT(s.id) AS visit_count
		FROM services s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.status = ? AND s.deleted_at IS NULL AND c.deleted_at IS NULL
		GROUP BY c.id, c.name
		ORDER BY total_spent DESC
		LIMIT ?
	`, enum.ServiceStatusCompleted, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}
