package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"go.uber.org/zap"
)

// AlertService keeps low-stock and expiry alerts in step with inventory
type AlertService struct {
	alertRepo repository.AlertRepository
	itemRepo  repository.InventoryItemRepository
	notifier  changeNotifier
	window    time.Duration
	now       func() time.Time
	log       *zap.Logger

	refreshMu sync.Mutex

	mu          sync.Mutex
	unsubscribe func()
}

// NewAlertService creates a new alert service. Items expiring within
// windowDays are flagged.
func NewAlertService(
	alertRepo repository.AlertRepository,
	itemRepo repository.InventoryItemRepository,
	publisher repository.ChangePublisher,
	windowDays int,
	log *zap.Logger,
) *AlertService {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &AlertService{
		alertRepo: alertRepo,
		itemRepo:  itemRepo,
		notifier:  newChangeNotifier(publisher, log),
		window:    time.Duration(windowDays) * 24 * time.Hour,
		now:       time.Now,
		log:       log,
	}
}

// AlertRefreshResult counts what a refresh changed
type AlertRefreshResult struct {
	Created  int   `json:"created"`
	Resolved int64 `json:"resolved"`
}

type alertKey struct {
	item uuid.UUID
	kind enum.AlertType
}

// RefreshInventoryAlerts opens an alert for every item that is low or
// expiring and has none open, and resolves open alerts whose condition has
// cleared or whose item is gone.
func (s *AlertService) RefreshInventoryAlerts(ctx context.Context) (*AlertRefreshResult, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load inventory")
	}
	active, err := s.alertRepo.ListActive(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load alerts")
	}

	open := make(map[alertKey]bool, len(active))
	for _, a := range active {
		open[alertKey{a.ItemID, a.Type}] = true
	}

	now := s.now()
	result := &AlertRefreshResult{}
	cleared := map[enum.AlertType][]uuid.UUID{}
	wanted := make(map[alertKey]bool)

	for i := range items {
		item := &items[i]
		checks := []struct {
			kind enum.AlertType
			hit  bool
		}{
			{enum.AlertTypeLowStock, item.IsLowStock()},
			{enum.AlertTypeExpiring, item.ExpiresWithin(now, s.window)},
		}
		for _, c := range checks {
			if !c.hit {
				continue
			}
			key := alertKey{item.ID, c.kind}
			wanted[key] = true
			if open[key] {
				continue
			}
			alert := &entity.Alert{ItemID: item.ID, Type: c.kind, Message: alertMessage(item, c.kind)}
			if err := s.alertRepo.Create(ctx, alert); err != nil {
				return nil, apperror.Wrap(err, "Failed to create alert")
			}
			result.Created++
		}
	}

	// covers items that were deleted as well as conditions that cleared
	for key := range open {
		if !wanted[key] {
			cleared[key.kind] = append(cleared[key.kind], key.item)
		}
	}

	for kind, ids := range cleared {
		n, err := s.alertRepo.ResolveWhere(ctx, kind, ids, now)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to resolve alerts")
		}
		result.Resolved += n
	}

	if result.Created > 0 || result.Resolved > 0 {
		s.log.Info("Inventory alerts refreshed",
			zap.Int("created", result.Created),
			zap.Int64("resolved", result.Resolved),
		)
		s.notifier.notify(ctx, repository.TableAlerts, repository.ChangeUpdate, uuid.Nil)
	}
	return result, nil
}

func alertMessage(item *entity.InventoryItem, kind enum.AlertType) string {
	if kind == enum.AlertTypeExpiring {
		return fmt.Sprintf("%s expires on %s", item.Name, item.ExpiryDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s is low on stock: %d left (minimum %d)", item.Name, item.CurrentStock, item.MinStock)
}

// ListActiveAlerts returns open alerts, newest first
func (s *AlertService) ListActiveAlerts(ctx context.Context) ([]entity.Alert, error) {
	alerts, err := s.alertRepo.ListActive(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list alerts")
	}
	return alerts, nil
}

// ResolveAlert closes an open alert by hand
func (s *AlertService) ResolveAlert(ctx context.Context, id uuid.UUID) (*entity.Alert, error) {
	alert, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load alert")
	}
	if alert == nil {
		return nil, apperror.NewNotFoundError("Alert")
	}
	if alert.IsResolved {
		return nil, apperror.NewConflictError("Alert is already resolved")
	}

	at := s.now()
	if err := s.alertRepo.Resolve(ctx, id, at); err != nil {
		return nil, apperror.Wrap(err, "Failed to resolve alert")
	}
	alert.IsResolved = true
	alert.ResolvedAt = &at

	s.notifier.notify(ctx, repository.TableAlerts, repository.ChangeUpdate, id)
	return alert, nil
}

// Start refreshes alerts whenever an inventory item changes. Calling Start
// again while subscribed is a no-op.
func (s *AlertService) Start(subscriber repository.ChangeSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = subscriber.Subscribe(repository.TableInventoryItems, func(ctx context.Context, _ repository.ChangeEvent) {
		if _, err := s.RefreshInventoryAlerts(ctx); err != nil {
			s.log.Warn("Alert refresh after inventory change failed", zap.Error(err))
		}
	})
}

// Stop drops the inventory subscription
func (s *AlertService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}
