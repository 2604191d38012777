package handler

import (
	"net/http"

	"yayasan-backend/internal/middleware"
	"yayasan-backend/internal/service"
	"yayasan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/dashboard")
	{
		dashboard.GET("/chart-data", middleware.RequireAuth(), h.ExpenseChart)
	}
}

// ExpenseChart aggregates expenses by category or by month for the
// dashboard breakdown chart
func (h *DashboardHandler) ExpenseChart(c *gin.Context) {
	chart, err := h.dashboardService.ExpenseChart(
		c.Request.Context(),
		c.Query("groupBy"),
		c.Query("month"),
		c.Query("category"),
	)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, chart))
}
