package entity

import (
	"time"
)

// ReceiptKind tells a checkout receipt from a single stock movement slip
type ReceiptKind string

const (
	ReceiptKindSale        ReceiptKind = "sale"
	ReceiptKindTransaction ReceiptKind = "transaction"
)

// ReceiptHeader holds the business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptLine is a single line item on a receipt. Amounts are preformatted.
type ReceiptLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// Receipt is a printable value object composed at print time.
// It is not persisted.
type Receipt struct {
	Kind        ReceiptKind   `json:"kind"`
	Header      ReceiptHeader `json:"header"`
	ReferenceNo string        `json:"reference_no"`
	IssuedAt    time.Time     `json:"issued_at"`
	Cashier     string        `json:"cashier,omitempty"`
	Customer    string        `json:"customer,omitempty"`
	Movement    string        `json:"movement,omitempty"`
	Note        string        `json:"note,omitempty"`
	Lines       []ReceiptLine `json:"lines"`
	ItemCount   int           `json:"item_count"`
	Total       string        `json:"total"`
	TotalCents  int64         `json:"-"`
}
