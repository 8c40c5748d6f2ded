package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/cart"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"go.uber.org/zap"
)

// CartService keeps each staff member's cart in the cart store and
// reconciles it with live stock.
type CartService struct {
	store    repository.CartStore
	itemRepo repository.InventoryItemRepository
	maxAge   time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	store repository.CartStore,
	itemRepo repository.InventoryItemRepository,
	maxAge time.Duration,
	log *zap.Logger,
) *CartService {
	return &CartService{
		store:    store,
		itemRepo: itemRepo,
		maxAge:   maxAge,
		now:      time.Now,
		log:      log,
	}
}

// CartResult is the cart plus any adjustments made while reconciling it.
// A non-empty Adjustments list means the user should be told.
type CartResult struct {
	Cart        *cart.Cart    `json:"cart"`
	Adjustments []cart.Change `json:"adjustments,omitempty"`
}

// load returns the saved cart, or an empty one when there is none or the
// saved one is older than maxAge.
func (s *CartService) load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load cart")
	}
	if c == nil {
		return cart.New(), nil
	}
	if c.IsStale(s.now(), s.maxAge) {
		s.log.Info("Discarding stale cart",
			zap.String("user_id", userID.String()),
			zap.Time("last_updated", c.LastUpdated),
		)
		if err := s.store.Delete(ctx, userID); err != nil {
			s.log.Warn("Failed to delete stale cart", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return cart.New(), nil
	}
	c.Recalculate()
	return c, nil
}

func (s *CartService) save(ctx context.Context, userID uuid.UUID, c *cart.Cart) error {
	c.Touch(s.now())
	if err := s.store.Save(ctx, userID, c); err != nil {
		s.log.Error("Failed to save cart", zap.String("user_id", userID.String()), zap.Error(err))
		return apperror.Wrap(err, "Failed to save cart")
	}
	return nil
}

// GetCart loads the cart, fetches live stock for its items and applies
// Validate. The reconciled cart is saved when anything changed.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResult, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return &CartResult{Cart: c}, nil
	}

	levels, err := s.itemRepo.StockLevels(ctx, c.ItemIDs())
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load stock levels")
	}

	changes := c.Validate(levels)
	if len(changes) > 0 {
		s.log.Info("Cart reconciled with live stock",
			zap.String("user_id", userID.String()),
			zap.Int("adjustments", len(changes)),
		)
		if err := s.save(ctx, userID, c); err != nil {
			return nil, err
		}
	}
	return &CartResult{Cart: c, Adjustments: changes}, nil
}

// AddToCart adds one unit of the item using its live stock and price.
// On a stock rule violation the unchanged cart is returned with the error.
func (s *CartService) AddToCart(ctx context.Context, userID, itemID uuid.UUID) (*CartResult, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load item")
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = c.Add(cart.Snapshot{
		ItemID:       item.ID,
		Name:         item.Name,
		UnitPrice:    item.UnitPrice,
		CurrentStock: item.CurrentStock,
		Supplier:     item.Supplier,
		Category:     item.CategoryName(),
	})
	if err != nil {
		return &CartResult{Cart: c}, err
	}

	if err := s.save(ctx, userID, c); err != nil {
		return nil, err
	}
	return &CartResult{Cart: c}, nil
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartResult, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateQuantity(itemID, quantity); err != nil {
		return &CartResult{Cart: c}, err
	}

	if err := s.save(ctx, userID, c); err != nil {
		return nil, err
	}
	return &CartResult{Cart: c}, nil
}

// RemoveFromCart drops a line; removing an absent item is not an error
func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) (*CartResult, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.Remove(itemID)
	if err := s.save(ctx, userID, c); err != nil {
		return nil, err
	}
	return &CartResult{Cart: c}, nil
}

// ClearCart empties the cart
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return apperror.Wrap(err, "Failed to clear cart")
	}
	return nil
}
