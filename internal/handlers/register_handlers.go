package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/dlezama/banca_simple_app/cmd/docs"
	"github.com/dlezama/banca_simple_app/internal/core/domain"
	portssvc "github.com/dlezama/banca_simple_app/internal/core/ports/services"
	"github.com/dlezama/banca_simple_app/internal/middleware"
	"github.com/dlezama/banca_simple_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, services)
	registerAccountRoutes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.User, cfg)

	// Rate limit: 5 requests per minute per IP on the credential endpoints
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", limitMiddleware, h.Register)
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/googleLogin", h.GoogleLogin)
		auth.GET("/me", middleware.AuthMiddleware(cfg.JWTSecret, services.User), h.Me)
	}
}

// registerAccountRoutes sets up the ledger routes behind the auth gate, with
// the admin subgroup additionally behind the role gate.
func registerAccountRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	accountHandler := NewAccountHandler(services.Ledger)
	adminHandler := NewAdminHandler(services.User, services.Ledger)

	account := r.Group("/api/account", middleware.AuthMiddleware(cfg.JWTSecret, services.User))
	{
		account.POST("/deposit", accountHandler.Deposit)
		account.POST("/withdraw", accountHandler.Withdraw)
		account.POST("/transfer", accountHandler.Transfer)
		account.GET("/balance", accountHandler.GetBalance)
		account.GET("/transactions", accountHandler.GetTransactions)
	}

	admin := account.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	{
		admin.PATCH("/change-role", adminHandler.ChangeRole)
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/transactions", adminHandler.ListAllTransactions)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
