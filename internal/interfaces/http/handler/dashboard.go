package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prakruthi/storefront/internal/application/report"
)

// DashboardHandler serves the staff dashboard summary
type DashboardHandler struct {
	BaseHandler
	dashboardService *report.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *report.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get godoc
// @Summary      Dashboard summary
// @Description  Pending and recent order counts, stock warnings and restock candidates
// @Tags         admin-dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=report.DashboardResponse}
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	summary, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
