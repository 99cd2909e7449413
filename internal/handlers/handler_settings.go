package handlers

import (
	"net/http"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/apphgio/tools_platform_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// settingsHandler handles the keyed platform-settings store.
type settingsHandler struct {
	settingsService portssvc.SettingsSvcFacade
}

func newSettingsHandler(ss portssvc.SettingsSvcFacade) *settingsHandler {
	return &settingsHandler{settingsService: ss}
}

// registerSettingsRoutes registers the settings surface.
func registerSettingsRoutes(rg *gin.RouterGroup, settingsService portssvc.SettingsSvcFacade) {
	h := newSettingsHandler(settingsService)

	settings := rg.Group("/settings", middleware.RequirePermission(domain.PermSettingsRead))
	{
		settings.GET("", h.getSettings)
		settings.GET("/:section", h.getSection)
		settings.PATCH("/:section", middleware.RequirePermission(domain.PermSettingsWrite), h.updateSection)
	}
}

// getSettings godoc
// @Summary All platform settings
// @Tags settings
// @Produce json
// @Success 200 {object} domain.PlatformSettings
// @Security BearerAuth
// @Router /settings [get]
func (h *settingsHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "load settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// getSection godoc
// @Summary One settings section
// @Description Returns the key/value map of a section; an unwritten section comes back empty, not 404.
// @Tags settings
// @Produce json
// @Param section path string true "Section key (general, access, restrictions, notifications, appearance)"
// @Success 200 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /settings/{section} [get]
func (h *settingsHandler) getSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	values, err := h.settingsService.GetSettingsSection(c.Request.Context(), domain.SettingsSection(c.Param("section")))
	if err != nil {
		respondError(c, logger, err, "load settings section")
		return
	}

	c.JSON(http.StatusOK, values)
}

// updateSection godoc
// @Summary Patch a settings section
// @Description Merges the supplied keys into the section; absent keys are preserved.
// @Tags settings
// @Accept json
// @Produce json
// @Param section path string true "Section key"
// @Param values body map[string]any true "Keys to merge"
// @Success 200 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /settings/{section} [patch]
func (h *settingsHandler) updateSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		respondBindError(c, err)
		return
	}
	if len(values) == 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("VALIDATION_ERROR", "No settings values supplied"))
		return
	}

	actorUserID, _ := middleware.GetUserIDFromContext(c)

	updated, err := h.settingsService.UpdateSettingsSection(c.Request.Context(), domain.SettingsSection(c.Param("section")), values, actorUserID)
	if err != nil {
		respondError(c, logger, err, "update settings")
		return
	}

	c.JSON(http.StatusOK, updated)
}
