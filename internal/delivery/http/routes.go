package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shelflife/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger logrus.FieldLogger) *gin.Engine {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(TimeoutMiddleware(cfg.Server.RequestTimeout))
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(NewRateLimiter(cfg.RateLimit.PerIP).Middleware())
	}
	{
		v1.GET("/lookup/:source/:upc", handler.LookupProduct)

		inventory := v1.Group("/inventory")
		{
			inventory.GET("", handler.ListInventory)
			inventory.POST("", handler.AddInventory)
			inventory.GET("/:id", handler.GetInventory)
			inventory.PATCH("/:id", handler.UpdateInventory)
			inventory.DELETE("/:id", handler.DeleteInventory)
		}

		v1.DELETE("/products/:id", handler.DeleteProduct)
	}

	return router
}
