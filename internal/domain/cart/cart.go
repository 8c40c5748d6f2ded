// Package cart holds the rules for a staff member's in-progress retail sale.
// It performs no I/O; callers load live stock and persist the result.
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/pkg/apperror"
)

var (
	ErrOutOfStock    = apperror.ErrOutOfStock
	ErrExceedsStock  = apperror.ErrExceedsStock
	ErrItemNotInCart = apperror.NewNotFoundError("Cart item")
)

// Snapshot is the live state of an inventory item at the moment it is added.
type Snapshot struct {
	ItemID       uuid.UUID
	Name         string
	UnitPrice    int64
	CurrentStock int
	Supplier     string
	Category     string
}

// Item is one cart line. Name, price, supplier and category are frozen at
// insertion; StockCeiling bounds Quantity.
type Item struct {
	ItemID       uuid.UUID `json:"item_id"`
	Name         string    `json:"name"`
	UnitPrice    int64     `json:"unit_price"`
	Quantity     int       `json:"quantity"`
	StockCeiling int       `json:"stock_ceiling"`
	Supplier     string    `json:"supplier,omitempty"`
	Category     string    `json:"category,omitempty"`
}

// LineTotal is unit price times quantity in cents
func (i Item) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Cart is an ordered list of items with derived totals.
type Cart struct {
	Items       []Item    `json:"items"`
	Total       int64     `json:"total"`
	ItemCount   int       `json:"item_count"`
	LastUpdated time.Time `json:"last_updated"`
}

// New returns an empty cart
func New() *Cart {
	return &Cart{Items: []Item{}}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) indexOf(itemID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// Find returns the line for itemID
func (c *Cart) Find(itemID uuid.UUID) (Item, bool) {
	if i := c.indexOf(itemID); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// Add puts one unit of s into the cart. Items with no stock are refused,
// and an existing line is only incremented while it stays within stock.
// On error the cart is unchanged.
func (c *Cart) Add(s Snapshot) error {
	if s.CurrentStock <= 0 {
		return ErrOutOfStock
	}

	if i := c.indexOf(s.ItemID); i >= 0 {
		next := c.Items[i].Quantity + 1
		if next > s.CurrentStock {
			return ErrExceedsStock
		}
		c.Items[i].Quantity = next
		c.Items[i].StockCeiling = s.CurrentStock
		c.Recalculate()
		return nil
	}

	c.Items = append(c.Items, Item{
		ItemID:       s.ItemID,
		Name:         s.Name,
		UnitPrice:    s.UnitPrice,
		Quantity:     1,
		StockCeiling: s.CurrentStock,
		Supplier:     s.Supplier,
		Category:     s.Category,
	})
	c.Recalculate()
	return nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Quantities above the line's stock ceiling are refused
// and the previous quantity is kept.
func (c *Cart) UpdateQuantity(itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		c.Remove(itemID)
		return nil
	}

	i := c.indexOf(itemID)
	if i < 0 {
		return ErrItemNotInCart
	}
	if quantity > c.Items[i].StockCeiling {
		return ErrExceedsStock
	}

	c.Items[i].Quantity = quantity
	c.Recalculate()
	return nil
}

// Remove drops the line for itemID if present
func (c *Cart) Remove(itemID uuid.UUID) {
	if i := c.indexOf(itemID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	c.Recalculate()
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.Recalculate()
}

// Recalculate derives Total and ItemCount from the lines.
func (c *Cart) Recalculate() {
	var total int64
	count := 0
	for _, item := range c.Items {
		total += item.LineTotal()
		count += item.Quantity
	}
	c.Total = total
	c.ItemCount = count
}

// Touch stamps the cart as modified at now
func (c *Cart) Touch(now time.Time) {
	c.LastUpdated = now
}

// IsStale reports whether the cart was last modified more than maxAge ago.
func (c *Cart) IsStale(now time.Time, maxAge time.Duration) bool {
	if c.LastUpdated.IsZero() {
		return false
	}
	return now.Sub(c.LastUpdated) > maxAge
}

// ItemIDs lists the inventory items referenced by the cart, in cart order
func (c *Cart) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ItemID
	}
	return ids
}
