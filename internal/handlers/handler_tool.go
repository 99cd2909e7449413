package handlers

import (
	"log/slog"
	"net/http"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/apphgio/tools_platform_app/internal/middleware"
	"github.com/apphgio/tools_platform_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// toolHandler handles HTTP requests related to catalog tools.
type toolHandler struct {
	toolService portssvc.ToolSvcFacade
}

func newToolHandler(ts portssvc.ToolSvcFacade) *toolHandler {
	return &toolHandler{toolService: ts}
}

// RegisterToolRoutes registers all tool routes. Reads are open to every
// authenticated role (the listing is visibility-filtered per role); writes
// require the tools:write capability.
func RegisterToolRoutes(rg *gin.RouterGroup, toolService portssvc.ToolSvcFacade) {
	h := newToolHandler(toolService)

	tools := rg.Group("/tools", middleware.RequirePermission(domain.PermToolsRead))
	{
		tools.GET("", h.listTools)
		tools.GET("/:id", h.getTool)
		tools.POST("/:id/access", middleware.RequirePermission(domain.PermToolsAccess), h.recordAccess)

		write := tools.Group("", middleware.RequirePermission(domain.PermToolsWrite))
		{
			write.POST("", h.createTool)
			write.PATCH("/:id", h.updateTool)
		}

		tools.DELETE("/:id", middleware.RequirePermission(domain.PermToolsDelete), h.deleteTool)
	}
}

// listTools godoc
// @Summary List catalog tools
// @Description Lists tools visible to the caller. Admins see the unrestricted catalog and may filter by status; every other role gets the active subset its visibility rules allow.
// @Tags tools
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param categoryId query string false "Filter by category"
// @Param sectionId query string false "Filter by section"
// @Param type query string false "Filter by tool type"
// @Param status query string false "Filter by status (admin only)"
// @Param search query string false "Search name or description"
// @Success 200 {object} dto.PaginatedResponse[dto.ToolResponse]
// @Security BearerAuth
// @Router /tools [get]
func (h *toolHandler) listTools(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListToolsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)

	var (
		page *domain.Page[domain.Tool]
		err  error
	)
	if domain.HasPermission(role, domain.PermToolsWrite) {
		// Admin surface: unrestricted, status filter honored as-is.
		page, err = h.toolService.ListTools(c.Request.Context(), params)
	} else {
		page, err = h.toolService.ListToolsForUser(c.Request.Context(), userID, role, params)
	}
	if err != nil {
		respondError(c, logger, err, "list tools")
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse[dto.ToolResponse]{
		Items: dto.ToToolResponses(page.Items),
		Meta:  dto.ToPageMeta(page.Meta),
	})
}

// getTool godoc
// @Summary Get a tool by ID
// @Tags tools
// @Produce json
// @Param id path string true "Tool ID"
// @Success 200 {object} dto.ToolResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/{id} [get]
func (h *toolHandler) getTool(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tool, err := h.toolService.GetToolByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve tool")
		return
	}

	c.JSON(http.StatusOK, dto.ToToolResponse(tool))
}

// createTool godoc
// @Summary Create a tool
// @Description Creates a catalog tool. The slug is derived from the name; the parent category and section must exist and be active.
// @Tags tools
// @Accept json
// @Produce json
// @Param tool body dto.CreateToolRequest true "Tool details"
// @Success 201 {object} dto.ToolResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools [post]
func (h *toolHandler) createTool(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)

	tool, err := h.toolService.CreateTool(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "create tool")
		return
	}

	logger.Info("Tool created", slog.String("tool_id", tool.ToolID), slog.String("slug", tool.Slug))
	c.JSON(http.StatusCreated, dto.ToToolResponse(tool))
}

// updateTool godoc
// @Summary Update a tool
// @Description Applies a partial update. Renaming regenerates the slug; moving between taxonomy nodes adjusts tool counts.
// @Tags tools
// @Accept json
// @Produce json
// @Param id path string true "Tool ID"
// @Param tool body dto.UpdateToolRequest true "Fields to update"
// @Success 200 {object} dto.ToolResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/{id} [patch]
func (h *toolHandler) updateTool(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updaterUserID, _ := middleware.GetUserIDFromContext(c)

	tool, err := h.toolService.UpdateTool(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondError(c, logger, err, "update tool")
		return
	}

	c.JSON(http.StatusOK, dto.ToToolResponse(tool))
}

// deleteTool godoc
// @Summary Delete a tool
// @Tags tools
// @Param id path string true "Tool ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/{id} [delete]
func (h *toolHandler) deleteTool(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	deleterUserID, _ := middleware.GetUserIDFromContext(c)

	if err := h.toolService.DeleteTool(c.Request.Context(), c.Param("id"), deleterUserID); err != nil {
		respondError(c, logger, err, "delete tool")
		return
	}

	logger.Info("Tool deleted", slog.String("tool_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

// recordAccess godoc
// @Summary Record a tool access event
// @Description Appends an access-log entry for the caller and bumps the tool's usage stats.
// @Tags tools
// @Accept json
// @Param id path string true "Tool ID"
// @Param event body dto.RecordAccessRequest false "Access event details"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/{id}/access [post]
func (h *toolHandler) recordAccess(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, _ := middleware.GetUserIDFromContext(c)

	var req dto.RecordAccessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	toolID := c.Param("id")
	if err := h.toolService.RecordAccess(c.Request.Context(), toolID, userID, req); err != nil {
		respondError(c, logger, err, "record access")
		return
	}

	action := req.Action
	if action == "" {
		action = string(domain.AccessActionAccess)
	}
	metrics.RecordToolAccess(toolID, action)
	c.Status(http.StatusNoContent)
}
