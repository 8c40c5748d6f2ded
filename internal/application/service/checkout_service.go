package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"github.com/sangkips/salonpro-api/pkg/utils"
	"go.uber.org/zap"
)

const saleReferencePrefix = "SALE"

// CheckoutService turns a cart into a sale
type CheckoutService struct {
	carts        *CartService
	itemRepo     repository.InventoryItemRepository
	txnRepo      repository.InventoryTransactionRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	transactor   repository.Transactor
	receipts     *ReceiptService
	notifier     changeNotifier
	now          func() time.Time
	log          *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	carts *CartService,
	itemRepo repository.InventoryItemRepository,
	txnRepo repository.InventoryTransactionRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	transactor repository.Transactor,
	receipts *ReceiptService,
	publisher repository.ChangePublisher,
	log *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:        carts,
		itemRepo:     itemRepo,
		txnRepo:      txnRepo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		transactor:   transactor,
		receipts:     receipts,
		notifier:     newChangeNotifier(publisher, log),
		now:          time.Now,
		log:          log,
	}
}

// CheckoutInput represents the checkout input
type CheckoutInput struct {
	UserID          uuid.UUID
	CustomerName    string
	CustomerPhone   *string
	ReferenceNumber *string
	Print           bool
}

// CheckoutResult is the committed sale and its receipt
type CheckoutResult struct {
	Sale       *entity.Sale    `json:"sale"`
	Receipt    *entity.Receipt `json:"receipt"`
	Printed    bool            `json:"printed"`
	PrintError string          `json:"print_error,omitempty"`
}

func insufficientStockFor(name string) *apperror.AppError {
	return apperror.NewBadRequestError("Insufficient stock for " + name)
}

// Checkout sells every cart line in one database transaction. Each line
// is deducted with a conditional decrement and logged as a stock_out row;
// the first line that cannot be covered rolls the whole sale back.
// The cart is cleared only after commit.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	c, err := s.carts.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, apperror.ErrEmptyCart
	}

	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		return nil, apperror.NewFieldError("customer_name", "Customer name is required")
	}
	phone := trimmedOrNil(input.CustomerPhone)

	now := s.now()
	reference := utils.TimestampReference(saleReferencePrefix, now)
	if ref := trimmedOrNil(input.ReferenceNumber); ref != nil {
		reference = *ref
		existing, err := s.saleRepo.GetByReference(ctx, reference)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to check reference number")
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Reference number already used")
		}
	}

	var customerID *uuid.UUID
	if phone != nil {
		customer, err := s.customerRepo.GetByPhone(ctx, *phone)
		if err != nil {
			s.log.Warn("Customer lookup by phone failed", zap.Error(err))
		} else if customer != nil {
			customerID = &customer.ID
		}
	}

	sale := &entity.Sale{
		ReferenceNumber: reference,
		CustomerName:    customerName,
		CustomerPhone:   phone,
		CustomerID:      customerID,
		Total:           c.Total,
		ItemCount:       c.ItemCount,
		CreatedBy:       input.UserID,
		CreatedAt:       now,
		Items:           make([]entity.SaleItem, 0, len(c.Items)),
	}
	for _, line := range c.Items {
		sale.Items = append(sale.Items, entity.SaleItem{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     line.LineTotal(),
		})
	}

	reason := "Sale to " + customerName
	ledger := make([]*entity.InventoryTransaction, 0, len(c.Items))

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		for _, line := range c.Items {
			ok, err := s.itemRepo.DecrementStock(ctx, line.ItemID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return insufficientStockFor(line.Name)
			}

			item, err := s.itemRepo.GetByID(ctx, line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return insufficientStockFor(line.Name)
			}

			txn := &entity.InventoryTransaction{
				ItemID:          line.ItemID,
				SaleID:          &sale.ID,
				Type:            enum.TransactionTypeStockOut,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				StockAfter:      item.CurrentStock,
				Reason:          &reason,
				ReferenceNumber: &reference,
				CreatedBy:       input.UserID,
				CreatedAt:       now,
			}
			if err := s.txnRepo.Create(ctx, txn); err != nil {
				return err
			}
			ledger = append(ledger, txn)
		}
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			s.log.Info("Checkout rejected", zap.String("reference", reference), zap.Error(err))
			return nil, err
		}
		s.log.Error("Checkout failed", zap.String("reference", reference), zap.Error(err))
		return nil, apperror.Wrap(err, "Failed to complete checkout")
	}

	if err := s.carts.ClearCart(ctx, input.UserID); err != nil {
		s.log.Warn("Failed to clear cart after checkout", zap.String("user_id", input.UserID.String()), zap.Error(err))
	}

	for _, txn := range ledger {
		s.notifier.notify(ctx, repository.TableInventoryTransactions, repository.ChangeInsert, txn.ID)
		s.notifier.notify(ctx, repository.TableInventoryItems, repository.ChangeUpdate, txn.ItemID)
	}

	s.log.Info("Checkout completed",
		zap.String("reference", reference),
		zap.Int("lines", len(sale.Items)),
		zap.Int64("total", sale.Total),
	)

	result := &CheckoutResult{Sale: sale}
	if s.receipts != nil {
		result.Receipt = s.receipts.SaleReceipt(ctx, sale)
		if input.Print {
			if err := s.receipts.Print(result.Receipt); err != nil {
				result.PrintError = err.Error()
			} else {
				result.Printed = true
			}
		}
	}
	return result, nil
}

// GetSale retrieves a sale with its lines
func (s *CheckoutService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load sale")
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales newest first with search
func (s *CheckoutService) ListSales(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params, search)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list sales")
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// GetSaleMovements returns the ledger rows written by a sale
func (s *CheckoutService) GetSaleMovements(ctx context.Context, saleID uuid.UUID) ([]entity.InventoryTransaction, error) {
	if _, err := s.GetSale(ctx, saleID); err != nil {
		return nil, err
	}
	txns, err := s.txnRepo.ListBySale(ctx, saleID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load sale movements")
	}
	return txns, nil
}
