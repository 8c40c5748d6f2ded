package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
)

// CreateItemRequest represents an inventory item creation request
type CreateItemRequest struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	Name         string     `json:"name" binding:"required,min=2,max=255"`
	SKU          string     `json:"sku" binding:"omitempty,max=100"`
	CurrentStock int        `json:"current_stock" binding:"min=0"`
	MinStock     int        `json:"min_stock" binding:"min=0"`
	MaxStock     int        `json:"max_stock" binding:"min=0"`
	UnitPrice    float64    `json:"unit_price" binding:"min=0"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Supplier     string     `json:"supplier" binding:"max=255"`
	Description  *string    `json:"description"`
}

// UpdateItemRequest represents an inventory item update request. Stock
// only moves through transactions.
type UpdateItemRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        *string    `json:"name" binding:"omitempty,min=2,max=255"`
	SKU         *string    `json:"sku" binding:"omitempty,min=1,max=100"`
	MinStock    *int       `json:"min_stock" binding:"omitempty,min=0"`
	MaxStock    *int       `json:"max_stock" binding:"omitempty,min=0"`
	UnitPrice   *float64   `json:"unit_price" binding:"omitempty,min=0"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	Supplier    *string    `json:"supplier" binding:"omitempty,max=255"`
	Description *string    `json:"description"`
}

// ItemFilterRequest represents item filter parameters
type ItemFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	Supplier   string `form:"supplier"`
	LowStock   bool   `form:"low_stock"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CategoryRequest creates or renames a category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}

// RecordTransactionRequest records one stock movement. For adjustments
// quantity is the counted stock.
type RecordTransactionRequest struct {
	ItemID          uuid.UUID            `json:"item_id" binding:"required"`
	Type            enum.TransactionType `json:"type" binding:"required"`
	Quantity        int                  `json:"quantity" binding:"min=0"`
	UnitPrice       *float64             `json:"unit_price" binding:"omitempty,min=0"`
	Reason          *string              `json:"reason" binding:"omitempty,max=500"`
	ReferenceNumber *string              `json:"reference_number" binding:"omitempty,max=100"`
}

// TransactionFilterRequest represents ledger filter parameters
type TransactionFilterRequest struct {
	Cursor    string `form:"cursor"`
	Limit     int    `form:"limit"`
	ItemID    string `form:"item_id"`
	Type      string `form:"type"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}
