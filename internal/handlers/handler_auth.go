package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/apphgio/tools_platform_app/internal/middleware"
	"github.com/apphgio/tools_platform_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// authHandler handles login, token rotation and logout.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	userService portssvc.UserSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade, us portssvc.UserSvcFacade) *authHandler {
	return &authHandler{authService: as, userService: us}
}

// registerAuthRoutes sets up the public auth endpoints plus the guarded
// /auth/logout and /auth/me. loginLimit throttles the credential endpoints.
func registerAuthRoutes(r *gin.Engine, authSvc portssvc.AuthSvcFacade, userSvc portssvc.UserSvcFacade, authGuard gin.HandlerFunc, loginLimit gin.HandlerFunc) {
	h := newAuthHandler(authSvc, userSvc)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimit, h.login)
		auth.POST("/login/google", loginLimit, h.loginWithGoogle)
		auth.POST("/refresh", loginLimit, h.refresh)
		auth.POST("/logout", authGuard, h.logout)
		auth.GET("/me", authGuard, h.me)
	}
}

// login godoc
// @Summary User login
// @Description Verifies an email/password pair and issues an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	metrics.AuthAttemptsCounter.Inc()

	resp, err := h.authService.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		respondError(c, logger, err, "log in")
		return
	}

	logger.Info("Login succeeded", slog.String("user_id", resp.User.ID))
	c.JSON(http.StatusOK, resp)
}

// loginWithGoogle godoc
// @Summary Login with a Google ID token
// @Description Accepts a verified Google ID token for an existing active account. No account is provisioned.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.ProviderLoginRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login/google [post]
func (h *authHandler) loginWithGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProviderLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	metrics.AuthAttemptsCounter.Inc()

	resp, err := h.authService.LoginWithProvider(c.Request.Context(), req.IDToken, c.ClientIP())
	if err != nil {
		respondError(c, logger, err, "log in")
		return
	}

	logger.Info("Provider login succeeded", slog.String("user_id", resp.User.ID))
	c.JSON(http.StatusOK, resp)
}

// refresh godoc
// @Summary Rotate the token pair
// @Description Invalidates the presented refresh token and issues a new access/refresh pair. A stale token fails with 401.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, logger, err, "refresh session")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// logout godoc
// @Summary Log out
// @Description Revokes the given refresh token, or every session of the caller when none is supplied.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body dto.LogoutRequest false "Refresh token to revoke"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("UNAUTHORIZED", "Authentication required"))
		return
	}

	var req dto.LogoutRequest
	// An empty body means revoke everything.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	if err := h.authService.Logout(c.Request.Context(), userID, req.RefreshToken); err != nil {
		respondError(c, logger, err, "log out")
		return
	}

	logger.Info("Logout succeeded", slog.String("user_id", userID))
	c.Status(http.StatusNoContent)
}

// me godoc
// @Summary Current profile
// @Description Returns the authenticated user's own profile.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("UNAUTHORIZED", "Authentication required"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "load profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
