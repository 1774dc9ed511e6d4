package router

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/pageza/receipt-chef/backend/internal/api"
	"github.com/pageza/receipt-chef/backend/internal/middleware"
)

// Options holds the optional router settings
type Options struct {
	AllowedOrigins []string
	// TrustedProxies may set the client IP through X-Forwarded-For; nil trusts none
	TrustedProxies []string
	// Limiter is applied to the API routes; nil disables rate limiting
	Limiter middleware.Limiter
}

// SetupRouter configures the application routes
func SetupRouter(
	receiptHandler *api.ReceiptHandler,
	recipeHandler *api.RecipeHandler,
	opts Options,
) *gin.Engine {
	router := gin.Default()
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.Printf("[Router] invalid trusted proxies %v, trusting none: %v", opts.TrustedProxies, err)
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", api.Health)

	routes := router.Group("")
	if opts.Limiter != nil {
		routes.Use(middleware.RateLimitMiddleware(opts.Limiter))
	}
	receiptHandler.RegisterRoutes(routes)
	recipeHandler.RegisterRoutes(routes)

	return router
}
