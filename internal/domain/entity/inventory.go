package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"gorm.io/gorm"
)

// InventoryCategory groups retail and back-bar products (shampoo, colour, tools)
type InventoryCategory struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *InventoryCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (InventoryCategory) TableName() string {
	return "inventory_categories"
}

// InventoryItem is a stocked product. CurrentStock is the authoritative counter,
// mutated alongside every ledger entry and never allowed below zero.
type InventoryItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID   *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	SKU          string         `gorm:"column:sku;size:100;uniqueIndex;not null" json:"sku"`
	CurrentStock int            `gorm:"not null;default:0;check:current_stock >= 0" json:"current_stock"`
	MinStock     int            `gorm:"default:0" json:"min_stock"`
	MaxStock     int            `gorm:"default:0" json:"max_stock"`
	UnitPrice    int64          `gorm:"default:0" json:"-"` // Stored in cents
	ExpiryDate   *time.Time     `json:"expiry_date,omitempty"`
	Supplier     string         `gorm:"size:255" json:"supplier"`
	Description  *string        `gorm:"type:text" json:"description,omitempty"`
	CreatedBy    uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *InventoryCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON renders prices as decimals
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	type Alias InventoryItem
	return json.Marshal(&struct {
		Alias
		UnitPrice  float64 `json:"unit_price"`
		IsLowStock bool    `json:"is_low_stock"`
	}{
		Alias:      Alias(i),
		UnitPrice:  float64(i.UnitPrice) / 100,
		IsLowStock: i.IsLowStock(),
	})
}

// BeforeCreate generates a UUID before creating a new item
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether stock has reached the reorder threshold
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock <= i.MinStock
}

// ExpiresWithin reports whether the item expires before now+window.
// Items without an expiry date never expire.
func (i *InventoryItem) ExpiresWithin(now time.Time, window time.Duration) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return i.ExpiryDate.Before(now.Add(window))
}

// CategoryName returns the category name or an empty string
func (i *InventoryItem) CategoryName() string {
	if i.Category == nil {
		return ""
	}
	return i.Category.Name
}

// InventoryTransaction is one append-only stock movement
type InventoryTransaction struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	ItemID          uuid.UUID            `gorm:"type:uuid;not null;index" json:"item_id"`
	SaleID          *uuid.UUID           `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	Type            enum.TransactionType `gorm:"size:20;not null;index" json:"type"`
	Quantity        int                  `gorm:"not null" json:"quantity"`
	UnitPrice       int64                `gorm:"not null" json:"-"` // Stored in cents
	TotalAmount     int64                `gorm:"not null" json:"-"` // Stored in cents
	StockAfter      int                  `gorm:"not null" json:"stock_after"`
	Reason          *string              `gorm:"type:text" json:"reason,omitempty"`
	ReferenceNumber *string              `gorm:"size:100;index" json:"reference_number,omitempty"`
	CreatedBy       uuid.UUID            `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt       time.Time            `gorm:"index" json:"created_at"`

	// Relationships
	Item *InventoryItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// MarshalJSON renders amounts as decimals
func (t InventoryTransaction) MarshalJSON() ([]byte, error) {
	type Alias InventoryTransaction
	return json.Marshal(&struct {
		Alias
		UnitPrice   float64 `json:"unit_price"`
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(t),
		UnitPrice:   float64(t.UnitPrice) / 100,
		TotalAmount: float64(t.TotalAmount) / 100,
	})
}

// BeforeCreate generates a UUID and derives the total from quantity and price
func (t *InventoryTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.TotalAmount = t.UnitPrice * int64(t.Quantity)
	return nil
}

func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}
