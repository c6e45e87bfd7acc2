package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/middleware"
)

type Router struct {
	userController  *controller.UserController
	itemController  *controller.ItemController
	cartController  *controller.CartController
	orderController *controller.OrderController
	authMiddleware  *middleware.AuthMiddleware
	config          *config.Config
}

func NewRouter(
	userController *controller.UserController,
	itemController *controller.ItemController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		userController:  userController,
		itemController:  itemController,
		cartController:  cartController,
		orderController: orderController,
		authMiddleware:  authMiddleware,
		config:          cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", r.userController.CreateUser)
			users.GET("", r.userController.ListUsers)
			users.POST("/login", r.userController.Login)
		}

		items := api.Group("/items")
		{
			items.POST("", r.itemController.CreateItem)
			items.GET("", r.itemController.ListItems)
		}

		carts := api.Group("/carts")
		carts.Use(r.authMiddleware.Authenticate())
		{
			carts.POST("", r.cartController.AddToCart)
			carts.GET("", r.cartController.ListCarts)
			carts.DELETE("/items/:item_id", r.cartController.RemoveFromCart)
		}

		orders := api.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.ListOrders)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		for _, allowedOrigin := range allowedOrigins {
			if allowedOrigin == "*" {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				break
			}
			if origin != "" && origin == allowedOrigin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Add("Vary", "Origin")
				break
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Idempotency-Key, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
