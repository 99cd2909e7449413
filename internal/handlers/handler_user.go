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

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers all user-related routes. The whole group is
// admin-only except profile reads, which any authenticated user may do for
// their own record via /auth/me.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users", middleware.RequirePermission(domain.PermUsersRead))
	{
		users.GET("", h.listUsers)
		users.GET("/stats", h.userStats)
		users.GET("/:id", h.getUser)

		write := users.Group("", middleware.RequirePermission(domain.PermUsersWrite))
		{
			write.POST("", h.createUser)
			write.PATCH("/:id", h.updateUser)
			write.PUT("/:id/tools", h.assignTools)
		}

		users.DELETE("/:id", middleware.RequirePermission(domain.PermUsersDelete), h.deleteUser)
	}
}

// createUser godoc
// @Summary Create a new user
// @Description Creates a new user account (admin action).
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)

	user, err := h.userService.CreateUser(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "create user")
		return
	}

	logger.Info("User created", slog.String("new_user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// getUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// listUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by status"
// @Param search query string false "Search email or display name"
// @Success 200 {object} dto.PaginatedResponse[dto.UserResponse]
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list users")
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse[dto.UserResponse]{
		Items: dto.ToUserResponses(page.Items),
		Meta:  dto.ToPageMeta(page.Meta),
	})
}

// updateUser godoc
// @Summary Update a user
// @Description Applies a partial update. Role changes and deactivation revoke the user's sessions.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [patch]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updaterUserID, _ := middleware.GetUserIDFromContext(c)

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondError(c, logger, err, "update user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Removes a user account. Self-deletion is rejected.
// @Tags users
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	deleterUserID, _ := middleware.GetUserIDFromContext(c)

	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id"), deleterUserID); err != nil {
		respondError(c, logger, err, "delete user")
		return
	}

	logger.Info("User deleted", slog.String("target_user_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

// assignTools godoc
// @Summary Replace a user's assigned tools
// @Description Replaces the full set of tool IDs directly assigned to the user.
// @Tags users
// @Accept json
// @Param id path string true "User ID"
// @Param assignment body dto.AssignToolsRequest true "Tool IDs"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/tools [put]
func (h *userHandler) assignTools(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AssignToolsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	assignerUserID, _ := middleware.GetUserIDFromContext(c)

	if err := h.userService.AssignTools(c.Request.Context(), c.Param("id"), req.ToolIDs, assignerUserID); err != nil {
		respondError(c, logger, err, "assign tools")
		return
	}

	c.Status(http.StatusNoContent)
}

// userStats godoc
// @Summary User statistics
// @Description Totals by role and status plus the most recent registrations.
// @Tags users
// @Produce json
// @Success 200 {object} domain.UserStats
// @Security BearerAuth
// @Router /users/stats [get]
func (h *userHandler) userStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.userService.GetUserStats(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "compute user stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
