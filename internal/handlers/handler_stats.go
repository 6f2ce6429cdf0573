package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
)

type statsHandler struct {
	statsService portssvc.StatsSvc
}

func registerStatsRoutes(scoped *gin.RouterGroup, ss portssvc.StatsSvc) {
	h := &statsHandler{statsService: ss}
	scoped.GET("/stats", h.getDashboardStats)
}

// getDashboardStats godoc
// @Summary Dashboard statistics
// @Description Sales, purchases, gross profit, balances and top products for a date range. Defaults to the current month.
// @Tags stats
// @Produce json
// @Param companyID path string true "Company ID"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param top query int false "Number of top products" default(5)
// @Success 200 {object} domain.DashboardStats
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/stats [get]
func (h *statsHandler) getDashboardStats(c *gin.Context) {
	logger, userID, companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.StatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	stats, err := h.statsService.GetDashboardStats(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
