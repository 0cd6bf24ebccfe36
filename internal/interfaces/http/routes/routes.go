// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/interfaces/http/handlers"
	"github.com/your-org/order-inventory-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	setupAuthRoutes(rg, db, cfg)
	setupUserRoutes(rg, db, cfg)
	setupProductRoutes(rg, db, cfg)
	setupStockRoutes(rg, db, cfg)
	setupOrderRoutes(rg, db, cfg)
	setupDeliveryRoutes(rg, db, cfg)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// setupUserRoutes sets up user management routes
func setupUserRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	userHandler := handlers.NewUserHandler(db, cfg)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("/search", userHandler.SearchUsers)
		users.PUT("/:id", userHandler.UpdateUser)

		admin := users.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("", userHandler.GetUsers)
			admin.DELETE("/:id", userHandler.DeleteUser)
		}
	}
}

// setupProductRoutes sets up product catalog routes
func setupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	products.Use(middleware.AuthMiddleware(cfg))
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)

		// Catalog writes are admin only
		admin := products.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", productHandler.CreateProduct)
			admin.PATCH("/:id", productHandler.UpdateProduct)
			admin.PUT("/:id", productHandler.ReplaceProduct)
			admin.DELETE("/:id", productHandler.DeleteProduct)
		}
	}
}

// setupStockRoutes sets up stock ledger routes
func setupStockRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	stockHandler := handlers.NewStockHandler(db, cfg)

	stock := rg.Group("/stock")
	stock.Use(middleware.AuthMiddleware(cfg))
	{
		stock.POST("", stockHandler.RecordMovement)
		stock.GET("", stockHandler.ListStock)
		stock.GET("/movements", stockHandler.ListMovements)
	}
}

// setupOrderRoutes sets up order and order item routes
func setupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, cfg)
	itemHandler := handlers.NewOrderItemHandler(db, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetOrders)
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id", orderHandler.UpdateOrder)
		orders.DELETE("/:id", orderHandler.DeleteOrder)
		orders.GET("/:id/invoice", orderHandler.GenerateInvoice)
	}

	items := rg.Group("/order-items")
	items.Use(middleware.AuthMiddleware(cfg))
	{
		items.GET("", itemHandler.ListItems)
		items.POST("", itemHandler.AddItem)
		items.DELETE("/:id", itemHandler.RemoveItem)
	}
}

// setupDeliveryRoutes sets up delivery routes
func setupDeliveryRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	deliveryHandler := handlers.NewDeliveryHandler(db, cfg)

	deliveries := rg.Group("/deliveries")
	deliveries.Use(middleware.AuthMiddleware(cfg))
	{
		deliveries.POST("", deliveryHandler.CreateDelivery)
		deliveries.GET("/:orderId", deliveryHandler.GetDeliveryByOrder)
	}
}
