package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonpro-api/internal/application/service"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salonpro-api/pkg/pagination"
)

// InventoryHandler handles items, categories and the stock ledger
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// ListItems handles listing inventory items
// @Summary List items
// @Tags inventory
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name, SKU or supplier"
// @Param low_stock query bool false "Only items at or below minimum stock"
// @Success 200 {object} response.APIResponse
// @Router /inventory/items [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var filter request.ItemFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ItemFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:     filter.Search,
		CategoryID: optionalUUID(filter.CategoryID),
		Supplier:   filter.Supplier,
		LowStock:   filter.LowStock,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}

	result, err := h.inventoryService.ListItems(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Items retrieved successfully", result)
}

// GetItem handles fetching a single item
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}

// LowStock lists items at or below their minimum
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.GetLowStockItems(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Low stock items retrieved successfully", items)
}

// CreateItem handles creating an item
// @Summary Create item
// @Tags inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateItemRequest true "Item data"
// @Success 201 {object} response.APIResponse
// @Router /inventory/items [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), &service.CreateItemInput{
		UserID:       userID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		SKU:          req.SKU,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
		MaxStock:     req.MaxStock,
		UnitPrice:    req.UnitPrice,
		ExpiryDate:   req.ExpiryDate,
		Supplier:     req.Supplier,
		Description:  req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", item)
}

// UpdateItem handles updating an item's catalogue fields
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	var req request.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), &service.UpdateItemInput{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		SKU:         req.SKU,
		MinStock:    req.MinStock,
		MaxStock:    req.MaxStock,
		UnitPrice:   req.UnitPrice,
		ExpiryDate:  req.ExpiryDate,
		Supplier:    req.Supplier,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}

// DeleteItem handles deleting an item
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item deleted successfully", nil)
}

// RecordTransaction records one stock movement
// @Summary Record stock movement
// @Description stock_in adds, stock_out removes, adjustment sets the counted stock
// @Tags inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.RecordTransactionRequest true "Movement"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /inventory/transactions [post]
func (h *InventoryHandler) RecordTransaction(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.inventoryService.RecordTransaction(c.Request.Context(), &service.RecordTransactionInput{
		UserID:          userID,
		ItemID:          req.ItemID,
		Type:            req.Type,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		Reason:          req.Reason,
		ReferenceNumber: req.ReferenceNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction recorded successfully", result)
}

// ListTransactions pages through the ledger newest first
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor: filter.Cursor,
			Limit:  filter.Limit,
		},
		ItemID:    optionalUUID(filter.ItemID),
		StartDate: optionalDate(filter.StartDate),
		EndDate:   optionalDate(filter.EndDate),
	}
	if filter.Type != "" {
		t := enum.TransactionType(filter.Type)
		if !t.IsValid() {
			response.BadRequest(c, "Invalid transaction type")
			return
		}
		params.Type = &t
	}

	result, err := h.inventoryService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithCursor(c, "Transactions retrieved successfully", result)
}

// GetTransaction returns one ledger row
func (h *InventoryHandler) GetTransaction(c *gin.Context) {
	id, ok := paramID(c, "id", "transaction")
	if !ok {
		return
	}

	txn, err := h.inventoryService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}

// ListCategories handles listing categories
func (h *InventoryHandler) ListCategories(c *gin.Context) {
	result, err := h.inventoryService.ListCategories(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Categories retrieved successfully", result)
}

// GetCategory handles fetching a category
func (h *InventoryHandler) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "id", "category")
	if !ok {
		return
	}
	category, err := h.inventoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category retrieved successfully", category)
}

// CreateCategory handles creating a category
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	category, err := h.inventoryService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Category created successfully", category)
}

// UpdateCategory handles renaming a category
func (h *InventoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id", "category")
	if !ok {
		return
	}
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	category, err := h.inventoryService.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category updated successfully", category)
}

// DeleteCategory handles deleting a category
func (h *InventoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id", "category")
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category deleted successfully", nil)
}
