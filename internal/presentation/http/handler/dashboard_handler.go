package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pahanaedu/pos-api/internal/application/service"
	"github.com/pahanaedu/pos-api/internal/presentation/http/dto/response"
)

// DashboardHandler serves the landing screen aggregates
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns today's sales figures, counts and top sellers
// @Summary Dashboard stats
// @Tags dashboard
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved", stats)
}

// LowStock returns the books at or below the low stock threshold
// @Summary Low stock books
// @Tags dashboard
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /dashboard/low-stock [get]
func (h *DashboardHandler) LowStock(c *gin.Context) {
	books, err := h.dashboardService.GetLowStockBooks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock books retrieved", books)
}
