package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
	"gorm.io/gorm"
)

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *gorm.DB) domainRepo.AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *entity.Alert) error {
	return conn(ctx, r.db).Create(alert).Error
}

func (r *alertRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Alert, error) {
	var alert entity.Alert
	err := conn(ctx, r.db).Preload("Item").First(&alert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &alert, err
}

func (r *alertRepository) ListActive(ctx context.Context) ([]entity.Alert, error) {
	var alerts []entity.Alert
	err := conn(ctx, r.db).
		Preload("Item").
		Where("is_resolved = ?", false).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Alert{}).
		Where("is_resolved = ?", false).
		Count(&count).Error
	return count, err
}

func (r *alertRepository) Resolve(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := conn(ctx, r.db).Model(&entity.Alert{}).
		Where("id = ? AND is_resolved = ?", id, false).
		Updates(map[string]interface{}{"is_resolved": true, "resolved_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *alertRepository) ResolveWhere(ctx context.Context, kind enum.AlertType, itemIDs []uuid.UUID, at time.Time) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	result := conn(ctx, r.db).Model(&entity.Alert{}).
		Where("type = ? AND item_id IN ? AND is_resolved = ?", kind, itemIDs, false).
		Updates(map[string]interface{}{"is_resolved": true, "resolved_at": at})
	return result.RowsAffected, result.Error
}
