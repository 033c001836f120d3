package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"voltfind/internal/config"
	"voltfind/internal/handler"
	"voltfind/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler *handler.BookingHandler
	ChargerHandler *handler.ChargerHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	Logger         *zap.Logger
	RateLimit      config.RateLimitConfig
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RateLimit.Enabled {
		router.Use(middleware.RateLimitMiddleware(deps.RateLimit.RequestsPerMinute, deps.RateLimit.Burst, deps.Logger))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient, deps.Logger))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Charger directory routes.
		chargers := v1.Group("/chargers")
		{
			chargers.GET("", deps.ChargerHandler.List)
			chargers.GET("/:id", deps.ChargerHandler.Get)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.GET("/catalog", deps.BookingHandler.Catalog)
			bookings.POST("", deps.BookingHandler.Create)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.DELETE("/:id", deps.BookingHandler.Close)
			bookings.PUT("/:id/date", deps.BookingHandler.SelectDate)
			bookings.PUT("/:id/time", deps.BookingHandler.SelectTime)
			bookings.PUT("/:id/duration", deps.BookingHandler.SelectDuration)
			bookings.POST("/:id/next", deps.BookingHandler.Next)
			bookings.POST("/:id/back", deps.BookingHandler.Back)
			bookings.PUT("/:id/payment", deps.BookingHandler.UpdatePayment)
			bookings.POST("/:id/pay", deps.BookingHandler.Pay)
			bookings.GET("/:id/payments", deps.BookingHandler.Payments)
			bookings.GET("/:id/receipt", deps.BookingHandler.Receipt)
		}
	}

	return router
}
