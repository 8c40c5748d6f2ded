package request

import "github.com/google/uuid"

// AddToCartRequest adds one unit of an item
type AddToCartRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}

// UpdateCartItemRequest sets a line's quantity; zero removes it
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// CheckoutRequest turns the caller's cart into a sale
type CheckoutRequest struct {
	CustomerName    string  `json:"customer_name" binding:"max=255"`
	CustomerPhone   *string `json:"customer_phone" binding:"omitempty,max=50"`
	ReferenceNumber *string `json:"reference_number" binding:"omitempty,max=100"`
	Print           bool    `json:"print"`
}

// PrintReceiptRequest reprints the receipt of a sale or a stock movement
type PrintReceiptRequest struct {
	Type string    `json:"type" binding:"required,oneof=sale transaction"`
	ID   uuid.UUID `json:"id" binding:"required"`
}
