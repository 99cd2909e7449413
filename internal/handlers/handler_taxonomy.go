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

// taxonomyHandler handles HTTP requests for categories and sections.
type taxonomyHandler struct {
	taxonomyService portssvc.TaxonomySvcFacade
}

func newTaxonomyHandler(ts portssvc.TaxonomySvcFacade) *taxonomyHandler {
	return &taxonomyHandler{taxonomyService: ts}
}

// registerTaxonomyRoutes registers category and section routes. Reads are
// open to every authenticated role; writes require tools:write since the
// taxonomy is part of catalog administration.
func registerTaxonomyRoutes(rg *gin.RouterGroup, taxonomyService portssvc.TaxonomySvcFacade) {
	h := newTaxonomyHandler(taxonomyService)

	rg.GET("/navigation", middleware.RequirePermission(domain.PermToolsRead), h.navigation)

	categories := rg.Group("/categories", middleware.RequirePermission(domain.PermToolsRead))
	{
		categories.GET("", h.listCategories)
		categories.GET("/:id", h.getCategory)

		write := categories.Group("", middleware.RequirePermission(domain.PermToolsWrite))
		{
			write.POST("", h.createCategory)
			write.PATCH("/:id", h.updateCategory)
			write.DELETE("/:id", h.deleteCategory)
		}
	}

	sections := rg.Group("/sections", middleware.RequirePermission(domain.PermToolsRead))
	{
		sections.GET("", h.listSections)
		sections.GET("/:id", h.getSection)

		write := sections.Group("", middleware.RequirePermission(domain.PermToolsWrite))
		{
			write.POST("", h.createSection)
			write.PATCH("/:id", h.updateSection)
			write.DELETE("/:id", h.deleteSection)
		}
	}
}

// navigation godoc
// @Summary Catalog navigation tree
// @Description Active categories, each paired with the active sections.
// @Tags taxonomy
// @Produce json
// @Success 200 {array} dto.NavigationEntry
// @Security BearerAuth
// @Router /navigation [get]
func (h *taxonomyHandler) navigation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	nav, err := h.taxonomyService.ListNavigation(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "load navigation")
		return
	}

	c.JSON(http.StatusOK, dto.ToNavigationEntries(nav))
}

// listCategories godoc
// @Summary List categories
// @Tags taxonomy
// @Produce json
// @Param activeOnly query bool false "Only active categories"
// @Success 200 {array} dto.CategoryResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *taxonomyHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	activeOnly := c.Query("activeOnly") == "true"

	categories, err := h.taxonomyService.ListCategories(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, logger, err, "list categories")
		return
	}

	out := make([]dto.CategoryResponse, len(categories))
	for i := range categories {
		out[i] = dto.ToCategoryResponse(&categories[i])
	}
	c.JSON(http.StatusOK, out)
}

// getCategory godoc
// @Summary Get a category by ID
// @Tags taxonomy
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [get]
func (h *taxonomyHandler) getCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	category, err := h.taxonomyService.GetCategoryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve category")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// createCategory godoc
// @Summary Create a category
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /categories [post]
func (h *taxonomyHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)

	category, err := h.taxonomyService.CreateCategory(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "create category")
		return
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID))
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// updateCategory godoc
// @Summary Update a category
// @Description Applies a partial update. The slug never changes after creation.
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [patch]
func (h *taxonomyHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updaterUserID, _ := middleware.GetUserIDFromContext(c)

	category, err := h.taxonomyService.UpdateCategory(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondError(c, logger, err, "update category")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// deleteCategory godoc
// @Summary Delete a category
// @Description Rejected while any tool still references the category.
// @Tags taxonomy
// @Param id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *taxonomyHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	deleterUserID, _ := middleware.GetUserIDFromContext(c)

	if err := h.taxonomyService.DeleteCategory(c.Request.Context(), c.Param("id"), deleterUserID); err != nil {
		respondError(c, logger, err, "delete category")
		return
	}

	c.Status(http.StatusNoContent)
}

// listSections godoc
// @Summary List sections
// @Tags taxonomy
// @Produce json
// @Param activeOnly query bool false "Only active sections"
// @Success 200 {array} dto.SectionResponse
// @Security BearerAuth
// @Router /sections [get]
func (h *taxonomyHandler) listSections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	activeOnly := c.Query("activeOnly") == "true"

	sections, err := h.taxonomyService.ListSections(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, logger, err, "list sections")
		return
	}

	out := make([]dto.SectionResponse, len(sections))
	for i := range sections {
		out[i] = dto.ToSectionResponse(&sections[i])
	}
	c.JSON(http.StatusOK, out)
}

// getSection godoc
// @Summary Get a section by ID
// @Tags taxonomy
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} dto.SectionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /sections/{id} [get]
func (h *taxonomyHandler) getSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	section, err := h.taxonomyService.GetSectionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve section")
		return
	}

	c.JSON(http.StatusOK, dto.ToSectionResponse(section))
}

// createSection godoc
// @Summary Create a section
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param section body dto.CreateSectionRequest true "Section details"
// @Success 201 {object} dto.SectionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /sections [post]
func (h *taxonomyHandler) createSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)

	section, err := h.taxonomyService.CreateSection(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "create section")
		return
	}

	logger.Info("Section created", slog.String("section_id", section.SectionID))
	c.JSON(http.StatusCreated, dto.ToSectionResponse(section))
}

// updateSection godoc
// @Summary Update a section
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param section body dto.UpdateSectionRequest true "Fields to update"
// @Success 200 {object} dto.SectionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /sections/{id} [patch]
func (h *taxonomyHandler) updateSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updaterUserID, _ := middleware.GetUserIDFromContext(c)

	section, err := h.taxonomyService.UpdateSection(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondError(c, logger, err, "update section")
		return
	}

	c.JSON(http.StatusOK, dto.ToSectionResponse(section))
}

// deleteSection godoc
// @Summary Delete a section
// @Description Rejected while any tool still references the section.
// @Tags taxonomy
// @Param id path string true "Section ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /sections/{id} [delete]
func (h *taxonomyHandler) deleteSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	deleterUserID, _ := middleware.GetUserIDFromContext(c)

	if err := h.taxonomyService.DeleteSection(c.Request.Context(), c.Param("id"), deleterUserID); err != nil {
		respondError(c, logger, err, "delete section")
		return
	}

	c.Status(http.StatusNoContent)
}
