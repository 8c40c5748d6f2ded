package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/money"
	"github.com/sangkips/salonpro-api/pkg/printer"
	"go.uber.org/zap"
)

// ReceiptConfig describes the receipt header and paper
type ReceiptConfig struct {
	PrinterType string
	StoreName   string
	Address     string
	Phone       string
	Width       int
	Location    *time.Location
}

// ReceiptService composes receipts for sales and stock movements and
// sends them to the thermal printer.
type ReceiptService struct {
	printer  printer.Printer
	cfg      ReceiptConfig
	saleRepo repository.SaleRepository
	txnRepo  repository.InventoryTransactionRepository
	userRepo repository.UserRepository
	log      *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	p printer.Printer,
	cfg ReceiptConfig,
	saleRepo repository.SaleRepository,
	txnRepo repository.InventoryTransactionRepository,
	userRepo repository.UserRepository,
	log *zap.Logger,
) *ReceiptService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	if cfg.Width <= 0 {
		cfg.Width = printer.Width58mm
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ReceiptService{
		printer:  p,
		cfg:      cfg,
		saleRepo: saleRepo,
		txnRepo:  txnRepo,
		userRepo: userRepo,
		log:      log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *ReceiptService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.cfg.PrinterType != "none" && s.cfg.PrinterType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.cfg.PrinterType,
	}
}

func (s *ReceiptService) header() entity.ReceiptHeader {
	return entity.ReceiptHeader{StoreName: s.cfg.StoreName, Address: s.cfg.Address, Phone: s.cfg.Phone}
}

// cashierName looks up the staff member's display name. A miss only
// leaves the line blank.
func (s *ReceiptService) cashierName(ctx context.Context, userID uuid.UUID) string {
	if s.userRepo == nil {
		return ""
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load cashier for receipt", zap.String("user_id", userID.String()), zap.Error(err))
		return ""
	}
	if user == nil {
		return ""
	}
	return user.FullName()
}

// SaleReceipt builds the receipt for a completed checkout
func (s *ReceiptService) SaleReceipt(ctx context.Context, sale *entity.Sale) *entity.Receipt {
	r := &entity.Receipt{
		Kind:        entity.ReceiptKindSale,
		Header:      s.header(),
		ReferenceNo: sale.ReferenceNumber,
		IssuedAt:    sale.CreatedAt,
		Cashier:     s.cashierName(ctx, sale.CreatedBy),
		Customer:    sale.CustomerName,
		Lines:       make([]entity.ReceiptLine, 0, len(sale.Items)),
		ItemCount:   sale.ItemCount,
		Total:       money.Format(sale.Total),
		TotalCents:  sale.Total,
	}
	for _, line := range sale.Items {
		r.Lines = append(r.Lines, entity.ReceiptLine{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: money.Format(line.UnitPrice),
			Total:     money.Format(line.Total),
		})
	}
	return r
}

func movementLabel(t enum.TransactionType) string {
	switch t {
	case enum.TransactionTypeStockIn:
		return "Stock in"
	case enum.TransactionTypeStockOut:
		return "Stock out"
	case enum.TransactionTypeAdjustment:
		return "Stock adjustment"
	}
	return string(t)
}

// TransactionReceipt builds the slip for a single ledger row
func (s *ReceiptService) TransactionReceipt(ctx context.Context, txn *entity.InventoryTransaction) *entity.Receipt {
	name := "Item"
	if txn.Item != nil && txn.Item.Name != "" {
		name = txn.Item.Name
	}

	reference := strings.ToUpper(txn.ID.String()[:8])
	if txn.ReferenceNumber != nil && *txn.ReferenceNumber != "" {
		reference = *txn.ReferenceNumber
	}

	r := &entity.Receipt{
		Kind:        entity.ReceiptKindTransaction,
		Header:      s.header(),
		ReferenceNo: reference,
		IssuedAt:    txn.CreatedAt,
		Cashier:     s.cashierName(ctx, txn.CreatedBy),
		Movement:    movementLabel(txn.Type),
		Lines: []entity.ReceiptLine{{
			Name:      name,
			Quantity:  txn.Quantity,
			UnitPrice: money.Format(txn.UnitPrice),
			Total:     money.Format(txn.TotalAmount),
		}},
		ItemCount:  txn.Quantity,
		Total:      money.Format(txn.TotalAmount),
		TotalCents: txn.TotalAmount,
	}
	if txn.Reason != nil {
		r.Note = *txn.Reason
	}
	return r
}

// GetSaleReceipt rebuilds the receipt of a past sale
func (s *ReceiptService) GetSaleReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load sale")
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return s.SaleReceipt(ctx, sale), nil
}

// GetTransactionReceipt rebuilds the slip of a ledger row
func (s *ReceiptService) GetTransactionReceipt(ctx context.Context, txnID uuid.UUID) (*entity.Receipt, error) {
	txn, err := s.txnRepo.GetByID(ctx, txnID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load transaction")
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return s.TransactionReceipt(ctx, txn), nil
}

// Print formats r and sends it to the printer.
func (s *ReceiptService) Print(r *entity.Receipt) error {
	if err := s.printer.Print(FormatReceipt(r, s.cfg.Width, s.cfg.Location)); err != nil {
		s.log.Warn("Receipt printing failed", zap.String("reference", r.ReferenceNo), zap.Error(err))
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// TestPrint sends a sample receipt to the printer and returns it.
func (s *ReceiptService) TestPrint() (*entity.Receipt, error) {
	r := &entity.Receipt{
		Kind:        entity.ReceiptKindSale,
		Header:      s.header(),
		ReferenceNo: "TEST-001",
		IssuedAt:    time.Now(),
		Cashier:     "System",
		Lines: []entity.ReceiptLine{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: money.Format(1000), Total: money.Format(1000)},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: money.Format(500), Total: money.Format(1000)},
		},
		ItemCount:  3,
		Total:      money.Format(2000),
		TotalCents: 2000,
	}
	return r, s.Print(r)
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int, loc *time.Location) []byte {
	if loc == nil {
		loc = time.UTC
	}
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Ref:", r.ReferenceNo).
		KeyValue("Date:", r.IssuedAt.In(loc).Format("2006-01-02 15:04"))

	if r.Cashier != "" {
		doc.KeyValue("Served by:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.Movement != "" {
		doc.KeyValue("Movement:", r.Movement)
	}

	doc.Separator('-')

	for _, line := range r.Lines {
		doc.ItemLine(line.Quantity, line.Name, line.Total)
		if line.Quantity > 1 {
			doc.TextF("  @ %s each", line.UnitPrice)
		}
	}

	doc.Separator('-')

	doc.KeyValue("Items:", fmt.Sprintf("%d", r.ItemCount)).
		SetBold(true).
		KeyValue("TOTAL:", r.Total).
		SetBold(false)

	if r.Note != "" {
		doc.Separator('-').Text(r.Note)
	}

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for visiting!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
