package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonpro-api/internal/application/service"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard and alert requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	alertService     *service.AlertService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, alertService *service.AlertService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, alertService: alertService}
}

// GetStats returns dashboard statistics
// @Summary Get dashboard statistics
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard statistics retrieved successfully", stats)
}

// ListAlerts returns unresolved alerts
func (h *DashboardHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alertService.ListActiveAlerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Alerts retrieved successfully", alerts)
}

// RefreshAlerts re-evaluates low stock and expiry alerts now
func (h *DashboardHandler) RefreshAlerts(c *gin.Context) {
	result, err := h.alertService.RefreshInventoryAlerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Alerts refreshed", result)
}

// ResolveAlert marks an alert resolved
func (h *DashboardHandler) ResolveAlert(c *gin.Context) {
	id, ok := paramID(c, "id", "alert")
	if !ok {
		return
	}
	alert, err := h.alertService.ResolveAlert(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Alert resolved", alert)
}
