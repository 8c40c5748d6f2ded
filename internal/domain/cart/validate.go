package cart

import (
	"github.com/google/uuid"
)

// ChangeKind describes what revalidation did to a line
type ChangeKind string

const (
	ChangeRemoved ChangeKind = "removed"
	ChangeClamped ChangeKind = "clamped"
)

// Change is one adjustment made by Validate. A non-empty list means the
// user should be told their cart changed.
type Change struct {
	ItemID      uuid.UUID  `json:"item_id"`
	Name        string     `json:"name"`
	Kind        ChangeKind `json:"kind"`
	OldQuantity int        `json:"old_quantity"`
	NewQuantity int        `json:"new_quantity"`
}

// Validate reconciles the cart against live stock, keyed by item id.
// Lines whose item no longer exists are dropped; lines above current stock
// are clamped down to it, and a clamp to zero drops the line. Every
// surviving line's ceiling is refreshed to the live stock.
func (c *Cart) Validate(stock map[uuid.UUID]int) []Change {
	var changes []Change
	kept := c.Items[:0]

	for _, item := range c.Items {
		current, ok := stock[item.ItemID]
		switch {
		case !ok || current <= 0:
			changes = append(changes, Change{
				ItemID:      item.ItemID,
				Name:        item.Name,
				Kind:        ChangeRemoved,
				OldQuantity: item.Quantity,
			})
			continue
		case item.Quantity > current:
			changes = append(changes, Change{
				ItemID:      item.ItemID,
				Name:        item.Name,
				Kind:        ChangeClamped,
				OldQuantity: item.Quantity,
				NewQuantity: current,
			})
			item.Quantity = current
		}
		item.StockCeiling = current
		kept = append(kept, item)
	}

	c.Items = kept
	if c.Items == nil {
		c.Items = []Item{}
	}
	c.Recalculate()
	return changes
}
