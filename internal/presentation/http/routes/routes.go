package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmabill-api/internal/config"
	domainRepo "github.com/sangkips/pharmabill-api/internal/domain/repository"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/handler"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/middleware"
	"github.com/sangkips/pharmabill-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Billing *handler.BillingHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.OperatorRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := deps.RateLimiter
		if rateLimiter == nil {
			rateLimiter = middleware.NewOperatorRateLimiter(
				middleware.RateLimiterConfigFrom(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration),
			)
		}
		protected.Use(rateLimiter.Middleware())

		registerBillingRoutes(protected, h, deps)
		registerPrinterRoutes(protected, h, deps)
	}

	return router
}

func registerBillingRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	billing := protected.Group("/billing")
	{
		billing.GET("/session", h.Billing.GetSession)

		// Bill tabs
		billing.PUT("/active", h.Billing.SwitchActive)
		billing.DELETE("/active", h.Billing.ClearActive)
		billing.PATCH("/customer", h.Billing.UpdateCustomer)

		// Medicine lookup and the pending line item
		billing.GET("/suggestions", h.Billing.Suggest)
		billing.POST("/draft", h.Billing.SelectMedicine)
		billing.PATCH("/draft", h.Billing.UpdateDraft)
		billing.DELETE("/draft", h.Billing.CancelDraft)

		billing.POST("/items", h.Billing.AddItem)
		billing.DELETE("/items/:index", h.Billing.RemoveItem)

		// Submit with idempotency support
		billing.POST("/submit", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Billing.Submit)
		billing.GET("/submissions", h.Billing.ListSubmissions)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", middleware.RequireRole(deps.Cfg.Printer.AdminRoles...), h.Printer.TestPrint)
	}
}
