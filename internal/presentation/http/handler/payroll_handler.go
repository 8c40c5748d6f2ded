package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonpro-api/internal/application/service"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salonpro-api/pkg/pagination"
)

// PayrollHandler handles workers, the service log and earnings
type PayrollHandler struct {
	payrollService *service.PayrollService
	reportService  *service.ReportService
	loc            *time.Location
}

// NewPayrollHandler creates a new payroll handler. loc is the business
// timezone used to read month parameters.
func NewPayrollHandler(payrollService *service.PayrollService, reportService *service.ReportService, loc *time.Location) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService, reportService: reportService, loc: loc}
}

// monthParam reads ?month=YYYY-MM, defaulting to the current month
func (h *PayrollHandler) monthParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("month")
	if raw == "" {
		now := time.Now().In(h.loc)
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.loc), true
	}
	month, err := time.ParseInLocation("2006-01", raw, h.loc)
	if err != nil {
		response.BadRequest(c, "month must look like 2006-01")
		return time.Time{}, false
	}
	return month, true
}

// ListWorkers handles listing workers
func (h *PayrollHandler) ListWorkers(c *gin.Context) {
	var filter request.WorkerFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.WorkerFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		ActiveOnly: filter.ActiveOnly,
	}
	if filter.PaymentType != "" {
		pt := enum.PaymentType(filter.PaymentType)
		params.PaymentType = &pt
	}

	result, err := h.payrollService.ListWorkers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Workers retrieved successfully", result)
}

// GetWorker handles fetching a worker
func (h *PayrollHandler) GetWorker(c *gin.Context) {
	id, ok := paramID(c, "id", "worker")
	if !ok {
		return
	}
	worker, err := h.payrollService.GetWorker(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Worker retrieved successfully", worker)
}

// CreateWorker handles adding a worker
func (h *PayrollHandler) CreateWorker(c *gin.Context) {
	var req request.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	worker, err := h.payrollService.CreateWorker(c.Request.Context(), &service.CreateWorkerInput{
		Name:           req.Name,
		Role:           req.Role,
		Phone:          req.Phone,
		Email:          req.Email,
		PaymentType:    req.PaymentType,
		Salary:         req.Salary,
		CommissionRate: req.CommissionRate,
		HiredAt:        req.HiredAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Worker created successfully", worker)
}

// UpdateWorker handles updating a worker's profile
func (h *PayrollHandler) UpdateWorker(c *gin.Context) {
	id, ok := paramID(c, "id", "worker")
	if !ok {
		return
	}

	var req request.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	worker, err := h.payrollService.UpdateWorker(c.Request.Context(), &service.UpdateWorkerInput{
		ID:          id,
		Name:        req.Name,
		Role:        req.Role,
		Phone:       req.Phone,
		Email:       req.Email,
		PaymentType: req.PaymentType,
		Salary:      req.Salary,
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Worker updated successfully", worker)
}

// DeleteWorker handles removing a worker
func (h *PayrollHandler) DeleteWorker(c *gin.Context) {
	id, ok := paramID(c, "id", "worker")
	if !ok {
		return
	}
	if err := h.payrollService.DeleteWorker(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Worker deleted successfully", nil)
}

// GetWorkerEarnings returns all-time and current-month commission
// @Summary Worker earnings
// @Tags payroll
// @Security BearerAuth
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} response.APIResponse
// @Router /workers/{id}/earnings [get]
func (h *PayrollHandler) GetWorkerEarnings(c *gin.Context) {
	id, ok := paramID(c, "id", "worker")
	if !ok {
		return
	}
	earnings, err := h.payrollService.GetWorkerEarnings(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Earnings retrieved successfully", earnings)
}

// GetDailyEarnings returns commission per day for the last ?days days
func (h *PayrollHandler) GetDailyEarnings(c *gin.Context) {
	id, ok := paramID(c, "id", "worker")
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.Query("days"))

	entries, err := h.payrollService.GetDailyEarnings(c.Request.Context(), id, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Daily earnings retrieved successfully", entries)
}

// UpdateWorkerCommissionRate sets a worker's default rate
func (h *PayrollHandler) UpdateWorkerCommissionRate(c *gin.Context) {
	id, ok := paramID(c, "id", "worker")
	if !ok {
		return
	}

	var req request.CommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.CommissionRate == nil {
		response.BadRequest(c, "commission_rate is required")
		return
	}

	earnings, err := h.payrollService.UpdateWorkerCommissionRate(c.Request.Context(), id, *req.CommissionRate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Commission rate updated successfully", earnings)
}

// Roster returns earnings for every worker as of now
func (h *PayrollHandler) Roster(c *gin.Context) {
	activeOnly := c.Query("active_only") != "false"
	summary, err := h.payrollService.ListRosterEarnings(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payroll retrieved successfully", summary)
}

// MonthlySummary returns the payroll of ?month=YYYY-MM
func (h *PayrollHandler) MonthlySummary(c *gin.Context) {
	month, ok := h.monthParam(c)
	if !ok {
		return
	}
	summary, err := h.payrollService.MonthlySummary(c.Request.Context(), month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payroll summary retrieved successfully", summary)
}

// ExportPayroll downloads the monthly payroll as a spreadsheet
func (h *PayrollHandler) ExportPayroll(c *gin.Context) {
	month, ok := h.monthParam(c)
	if !ok {
		return
	}
	report, err := h.reportService.ExportPayroll(c.Request.Context(), month)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(200, report.ContentType, report.Data)
}

// ListServices handles listing the service log
func (h *PayrollHandler) ListServices(c *gin.Context) {
	var filter request.ServiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ServiceFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		WorkerID:   optionalUUID(filter.WorkerID),
		CustomerID: optionalUUID(filter.CustomerID),
	}
	if filter.Status != "" {
		status := enum.ServiceStatus(filter.Status)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid service status")
			return
		}
		params.Status = &status
	}

	result, err := h.payrollService.ListServices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Services retrieved successfully", result)
}

// GetService handles fetching a logged service
func (h *PayrollHandler) GetService(c *gin.Context) {
	id, ok := paramID(c, "id", "service")
	if !ok {
		return
	}
	svc, err := h.payrollService.GetService(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service retrieved successfully", svc)
}

// RecordService logs a service
func (h *PayrollHandler) RecordService(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.RecordServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	svc, err := h.payrollService.RecordService(c.Request.Context(), &service.RecordServiceInput{
		UserID:         userID,
		Name:           req.Name,
		Price:          req.Price,
		WorkerID:       req.WorkerID,
		CustomerID:     req.CustomerID,
		CommissionRate: req.CommissionRate,
		Notes:          req.Notes,
		Completed:      req.Completed,
		CompletedAt:    req.CompletedAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Service recorded successfully", svc)
}

// CompleteService marks a pending service done
func (h *PayrollHandler) CompleteService(c *gin.Context) {
	id, ok := paramID(c, "id", "service")
	if !ok {
		return
	}
	svc, err := h.payrollService.CompleteService(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service completed", svc)
}

// CancelService cancels a pending service
func (h *PayrollHandler) CancelService(c *gin.Context) {
	id, ok := paramID(c, "id", "service")
	if !ok {
		return
	}
	svc, err := h.payrollService.CancelService(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service cancelled", svc)
}

// UpdateServiceCommissionRate overrides the rate for one service. A null
// rate falls back to the worker's rate.
func (h *PayrollHandler) UpdateServiceCommissionRate(c *gin.Context) {
	id, ok := paramID(c, "id", "service")
	if !ok {
		return
	}

	var req request.CommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	earnings, err := h.payrollService.UpdateServiceCommissionRate(c.Request.Context(), id, req.CommissionRate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Commission rate updated successfully", earnings)
}

// DeleteService removes a logged service
func (h *PayrollHandler) DeleteService(c *gin.Context) {
	id, ok := paramID(c, "id", "service")
	if !ok {
		return
	}
	if err := h.payrollService.DeleteService(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service deleted successfully", nil)
}
