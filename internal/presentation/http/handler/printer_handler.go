package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonpro-api/internal/application/service"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipt and printer requests.
type PrinterHandler struct {
	receiptService *service.ReceiptService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(receiptService *service.ReceiptService) *PrinterHandler {
	return &PrinterHandler{receiptService: receiptService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.GetStatus())
}

// TestPrint sends a test page to the printer. The receipt comes back even
// when the printer is off.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.receiptService.TestPrint()
	if err != nil {
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Test page sent to printer", gin.H{"receipt": receipt})
}

// SaleReceipt returns the receipt of a sale without printing it.
func (h *PrinterHandler) SaleReceipt(c *gin.Context) {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return
	}
	receipt, err := h.receiptService.GetSaleReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// TransactionReceipt returns the slip of a stock movement.
func (h *PrinterHandler) TransactionReceipt(c *gin.Context) {
	id, ok := paramID(c, "id", "transaction")
	if !ok {
		return
	}
	receipt, err := h.receiptService.GetTransactionReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// PrintReceipt reprints a sale receipt or a movement slip.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	var (
		receipt *entity.Receipt
		err     error
	)
	switch req.Type {
	case "sale":
		receipt, err = h.receiptService.GetSaleReceipt(ctx, req.ID)
	default:
		receipt, err = h.receiptService.GetTransactionReceipt(ctx, req.ID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.receiptService.Print(receipt); err != nil {
		response.OK(c, "Receipt generated but printing failed", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}
