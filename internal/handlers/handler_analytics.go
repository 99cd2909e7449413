package handlers

import (
	"net/http"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// analyticsHandler handles on-demand aggregation requests.
type analyticsHandler struct {
	analyticsService portssvc.AnalyticsSvcFacade
}

func newAnalyticsHandler(as portssvc.AnalyticsSvcFacade) *analyticsHandler {
	return &analyticsHandler{analyticsService: as}
}

// registerAnalyticsRoutes registers the admin analytics surface.
func registerAnalyticsRoutes(rg *gin.RouterGroup, analyticsService portssvc.AnalyticsSvcFacade) {
	h := newAnalyticsHandler(analyticsService)

	analytics := rg.Group("/analytics", middleware.RequirePermission(domain.PermAnalyticsRead))
	{
		analytics.GET("/dashboard", h.dashboard)
		analytics.GET("/tools/:id", h.toolAnalytics)
		analytics.GET("/users/:id", h.userAnalytics)
	}
}

// dashboard godoc
// @Summary Platform dashboard statistics
// @Description User totals by role, active tool count, last-24h access volume, unresolved errors and the top tools by usage. Computed on demand.
// @Tags analytics
// @Produce json
// @Success 200 {object} domain.DashboardStats
// @Security BearerAuth
// @Router /analytics/dashboard [get]
func (h *analyticsHandler) dashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.analyticsService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "compute dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// toolAnalytics godoc
// @Summary Per-tool usage analytics
// @Tags analytics
// @Produce json
// @Param id path string true "Tool ID"
// @Param period query string false "Trailing window: daily, weekly or monthly" default(weekly)
// @Success 200 {object} domain.ToolAnalytics
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /analytics/tools/{id} [get]
func (h *analyticsHandler) toolAnalytics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period := domain.AnalyticsPeriod(c.DefaultQuery("period", string(domain.PeriodWeekly)))

	stats, err := h.analyticsService.GetToolAnalytics(c.Request.Context(), c.Param("id"), period)
	if err != nil {
		respondError(c, logger, err, "compute tool analytics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// userAnalytics godoc
// @Summary Per-user usage analytics
// @Tags analytics
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} domain.UserAnalytics
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /analytics/users/{id} [get]
func (h *analyticsHandler) userAnalytics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.analyticsService.GetUserAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "compute user analytics")
		return
	}

	c.JSON(http.StatusOK, stats)
}
