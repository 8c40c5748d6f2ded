package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonpro-api/internal/application/service"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/response"
)

// SalesHandler handles the caller's cart, checkout and past sales
type SalesHandler struct {
	cartService     *service.CartService
	checkoutService *service.CheckoutService
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(cartService *service.CartService, checkoutService *service.CheckoutService) *SalesHandler {
	return &SalesHandler{cartService: cartService, checkoutService: checkoutService}
}

// cartReply writes a cart result. A stock rule violation still carries the
// unchanged cart so the client can redraw it.
func cartReply(c *gin.Context, message string, result *service.CartResult, err error) {
	if err != nil {
		if result != nil {
			response.ErrorWithData(c, err, result)
			return
		}
		response.Error(c, err)
		return
	}
	if len(result.Adjustments) > 0 {
		message = "Cart adjusted to current stock"
	}
	response.OK(c, message, result)
}

// GetCart returns the caller's cart reconciled against live stock
// @Summary Get cart
// @Tags sales
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /cart [get]
func (h *SalesHandler) GetCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.cartService.GetCart(c.Request.Context(), userID)
	cartReply(c, "Cart retrieved successfully", result, err)
}

// AddToCart adds one unit of an item
func (h *SalesHandler) AddToCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.cartService.AddToCart(c.Request.Context(), userID, req.ItemID)
	cartReply(c, "Item added to cart", result, err)
}

// UpdateCartItem sets a line's quantity
func (h *SalesHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "item_id", "item")
	if !ok {
		return
	}

	var req request.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.cartService.UpdateQuantity(c.Request.Context(), userID, itemID, *req.Quantity)
	cartReply(c, "Cart updated", result, err)
}

// RemoveFromCart drops a line
func (h *SalesHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "item_id", "item")
	if !ok {
		return
	}

	result, err := h.cartService.RemoveFromCart(c.Request.Context(), userID, itemID)
	cartReply(c, "Item removed from cart", result, err)
}

// ClearCart empties the cart
func (h *SalesHandler) ClearCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared", nil)
}

// Checkout turns the cart into a sale
// @Summary Checkout
// @Description Either every line is sold and stock decremented, or nothing changes
// @Tags sales
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first successful response"
// @Param request body request.CheckoutRequest true "Customer details"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /checkout [post]
func (h *SalesHandler) Checkout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), &service.CheckoutInput{
		UserID:          userID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		ReferenceNumber: req.ReferenceNumber,
		Print:           req.Print,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", result)
}

// ListSales handles listing sales
func (h *SalesHandler) ListSales(c *gin.Context) {
	result, err := h.checkoutService.ListSales(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// GetSale returns a sale with its lines
func (h *SalesHandler) GetSale(c *gin.Context) {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return
	}
	sale, err := h.checkoutService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}

// GetSaleMovements returns the stock_out rows a sale wrote
func (h *SalesHandler) GetSaleMovements(c *gin.Context) {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return
	}
	movements, err := h.checkoutService.GetSaleMovements(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale movements retrieved successfully", movements)
}
