package handlers

import (
	"log/slog"
	"net/http"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/apphgio/tools_platform_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// logsHandler handles HTTP requests for the three log kinds.
type logsHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newLogsHandler(as portssvc.AuditSvcFacade) *logsHandler {
	return &logsHandler{auditService: as}
}

// registerLogRoutes registers log routes. Reading logs is an admin
// surface; error reporting is open to any authenticated caller so tools
// can report failures on behalf of their users.
func registerLogRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newLogsHandler(auditService)

	logs := rg.Group("/logs")
	{
		logs.POST("/errors", h.createErrorLog)

		read := logs.Group("", middleware.RequirePermission(domain.PermLogsRead))
		{
			read.GET("/access", h.listAccessLogs)
			read.GET("/system", h.listSystemLogs)
			read.GET("/errors", h.listErrorLogs)
			read.PATCH("/errors/:id/status", h.updateErrorStatus)
		}
	}
}

// listAccessLogs godoc
// @Summary List tool access logs
// @Description Filterable access history. On backends with cursor support, pass the previous page's nextCursor as startAfter.
// @Tags logs
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param userId query string false "Filter by user"
// @Param toolId query string false "Filter by tool"
// @Param action query string false "Filter by action"
// @Param dateFrom query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param dateTo query string false "Exclusive upper bound (YYYY-MM-DD)"
// @Param startAfter query string false "Opaque continuation cursor"
// @Success 200 {object} dto.PaginatedResponse[domain.AccessLog]
// @Security BearerAuth
// @Router /logs/access [get]
func (h *logsHandler) listAccessLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccessLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.auditService.ListAccessLogs(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list access logs")
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse[domain.AccessLog]{
		Items: page.Items,
		Meta:  dto.ToPageMeta(page.Meta),
	})
}

// listSystemLogs godoc
// @Summary List audit trail entries
// @Tags logs
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param type query string false "Filter by entry type"
// @Param actorId query string false "Filter by acting user"
// @Param action query string false "Filter by action code"
// @Success 200 {object} dto.PaginatedResponse[domain.SystemLog]
// @Security BearerAuth
// @Router /logs/system [get]
func (h *logsHandler) listSystemLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListSystemLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.auditService.ListSystemLogs(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list system logs")
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse[domain.SystemLog]{
		Items: page.Items,
		Meta:  dto.ToPageMeta(page.Meta),
	})
}

// createErrorLog godoc
// @Summary Report a platform error
// @Description Opens a new error log entry in status "new".
// @Tags logs
// @Accept json
// @Produce json
// @Param error body dto.CreateErrorLogRequest true "Error details"
// @Success 201 {object} domain.ErrorLog
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /logs/errors [post]
func (h *logsHandler) createErrorLog(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateErrorLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.auditService.CreateErrorLog(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "create error log")
		return
	}

	logger.Info("Error log created", slog.String("log_id", entry.LogID), slog.String("severity", string(entry.Severity)))
	c.JSON(http.StatusCreated, entry)
}

// listErrorLogs godoc
// @Summary List error logs
// @Tags logs
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param severity query string false "Filter by severity"
// @Param status query string false "Filter by lifecycle status"
// @Success 200 {object} dto.PaginatedResponse[domain.ErrorLog]
// @Security BearerAuth
// @Router /logs/errors [get]
func (h *logsHandler) listErrorLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListErrorLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.auditService.ListErrorLogs(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list error logs")
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse[domain.ErrorLog]{
		Items: page.Items,
		Meta:  dto.ToPageMeta(page.Meta),
	})
}

// updateErrorStatus godoc
// @Summary Move an error log through its lifecycle
// @Description Applies a status transition (new, investigating, resolved, ignored). Illegal moves fail with 400.
// @Tags logs
// @Accept json
// @Produce json
// @Param id path string true "Error log ID"
// @Param transition body dto.UpdateErrorStatusRequest true "Target status"
// @Success 200 {object} domain.ErrorLog
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /logs/errors/{id}/status [patch]
func (h *logsHandler) updateErrorStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateErrorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actorUserID, _ := middleware.GetUserIDFromContext(c)

	entry, err := h.auditService.UpdateErrorLogStatus(c.Request.Context(), c.Param("id"), req, actorUserID)
	if err != nil {
		respondError(c, logger, err, "update error status")
		return
	}

	c.JSON(http.StatusOK, entry)
}
