package handlers

import (
	"log/slog"

	"github.com/apphgio/tools_platform_app/cmd/docs"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/middleware"
	"github.com/apphgio/tools_platform_app/pkg/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// using the service container interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	r.Use(cors.Default())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RateLimit(newLimiter(cfg.RateLimit, "100-M")))

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGuard := middleware.AuthMiddleware(cfg.JWTSecret, services.Auth)
	loginLimit := middleware.RateLimit(newLimiter(cfg.LoginRateLimit, "5-M"))

	// Public authentication routes (plus the guarded /logout and /me)
	registerAuthRoutes(r, services.Auth, services.User, authGuard, loginLimit)

	// API v1 routes behind the auth guard
	setupAPIV1Routes(r, services, authGuard)

	// Swagger routes (disabled in production)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	authGuard gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", authGuard)

	registerUserRoutes(v1, services.User)
	RegisterToolRoutes(v1, services.Tool)
	registerTaxonomyRoutes(v1, services.Taxonomy)
	registerLogRoutes(v1, services.Audit)
	registerAnalyticsRoutes(v1, services.Analytics)
	registerSettingsRoutes(v1, services.Settings)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// newLimiter builds an in-memory rate limiter from ulule formatted
// notation ("100-M"). A malformed value falls back to the given default.
func newLimiter(formatted, fallback string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Warn("Invalid rate limit notation, using fallback", slog.String("value", formatted), slog.String("fallback", fallback))
		rate, _ = limiter.NewRateFromFormatted(fallback)
	}
	return limiter.New(memory.NewStore(), rate)
}

// registerCustomValidators wires the "userrole" binding tag used by the
// request DTOs into gin's validator engine.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
			return domain.UserRole(fl.Field().String()).IsValid()
		})
	}
}
