package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weavewear/weavewear-backend-go/handlers"
	customMiddleware "github.com/weavewear/weavewear-backend-go/middleware"
)

func SetupRoutes(e *echo.Echo) {
	// Auth (public)
	e.POST("/api/auth/register", handlers.Register)
	e.POST("/api/auth/login", handlers.Login)
	e.POST("/api/auth/google", handlers.GoogleAuth)

	// Catalog (public)
	e.GET("/api/products", handlers.GetProducts)
	e.GET("/api/products/search", handlers.SearchProducts)
	e.GET("/api/products/new-arrivals", handlers.GetNewArrivals)
	e.GET("/api/products/top-selling", handlers.GetTopSelling)
	e.GET("/api/products/:productId", handlers.GetProduct)
	e.GET("/api/products/:productId/reviews", handlers.GetReviews)
	e.GET("/api/categories", handlers.GetCategories)
	e.GET("/api/categories/:categoryName/products", handlers.GetCategoryProducts)

	// Authenticated routes
	auth := e.Group("", customMiddleware.AuthMiddleware())

	// Catalog seeding
	auth.POST("/api/products", handlers.CreateProduct)

	// User self-service
	auth.GET("/api/user/profile", handlers.GetProfile)
	auth.PUT("/api/user/profile", handlers.UpdateProfile)
	auth.PUT("/api/user/email", handlers.UpdateEmail)
	auth.PUT("/api/user/password", handlers.UpdatePassword)
	auth.DELETE("/api/user", handlers.DeleteAccount)

	// Address book
	auth.GET("/api/user/addresses", handlers.GetAddresses)
	auth.POST("/api/user/addresses", handlers.AddAddress)
	auth.PUT("/api/user/addresses/:addressId", handlers.UpdateAddress)
	auth.DELETE("/api/user/addresses/:addressId", handlers.DeleteAddress)
	auth.PUT("/api/user/addresses/:addressId/default", handlers.SetDefaultAddress)

	// Payment methods
	auth.GET("/api/user/payment-methods", handlers.GetPaymentMethods)
	auth.POST("/api/user/payment-methods", handlers.AddPaymentMethod)
	auth.DELETE("/api/user/payment-methods/:paymentId", handlers.DeletePaymentMethod)
	auth.PUT("/api/user/payment-methods/:paymentId/default", handlers.SetDefaultPaymentMethod)

	// Reviews
	auth.POST("/api/products/:productId/reviews", handlers.AddReview)
	auth.DELETE("/api/products/:productId/reviews/:reviewId", handlers.DeleteReview)

	// Cart
	auth.GET("/api/cart", handlers.GetCart)
	auth.POST("/api/cart", handlers.AddToCart)
	auth.PUT("/api/cart/:itemId", handlers.UpdateCartItem)
	auth.DELETE("/api/cart/:itemId", handlers.RemoveFromCart)
	auth.DELETE("/api/cart", handlers.ClearCart)

	// Orders
	auth.GET("/api/orders", handlers.GetOrders)
	auth.GET("/api/orders/:orderId", handlers.GetOrder)
	auth.POST("/api/orders", handlers.CreateOrder)
	auth.PUT("/api/orders/:orderId/status", handlers.UpdateOrderStatus)

	// Wishlist
	auth.GET("/api/wishlist", handlers.GetWishlist)
	auth.POST("/api/wishlist", handlers.AddToWishlist)
	auth.DELETE("/api/wishlist/:productId", handlers.RemoveFromWishlist)

	// Operational endpoints
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
