// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beautyshelf/beautyshelf-backend/internal/config"
	"github.com/beautyshelf/beautyshelf-backend/internal/handlers"
	"github.com/beautyshelf/beautyshelf-backend/internal/middleware"
	"github.com/beautyshelf/beautyshelf-backend/internal/services"
)

func Initialize(cfg *config.Config, productService *services.ProductService) *gin.Engine {
	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	backupHandler := handlers.NewBackupHandler(productService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "2.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		// Backup routes
		backup := v1.Group("/backup")
		{
			backup.GET("/export", backupHandler.Export)
			backup.POST("/import", middleware.ImportRateLimit(), backupHandler.Import)
		}
	}

	return r
}
