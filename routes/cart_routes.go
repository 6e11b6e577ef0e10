package routes

import (
	"github.com/Govind-619/Storefront/config"
	"github.com/Govind-619/Storefront/controllers"
	"github.com/Govind-619/Storefront/middleware"
	"github.com/gin-gonic/gin"
)

// initCartRoutes registers the shopper facing cart, checkout and order routes
func initCartRoutes(router *gin.RouterGroup, h *controllers.Handler, cfg *config.Config) {
	shop := router.Group("")
	shop.Use(middleware.OptionalAuth(cfg.JWTSecret), middleware.EnsureCartToken())

	cart := shop.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/add", h.AddToCart)
		cart.PATCH("/item", h.SetItemQuantity)
		cart.DELETE("/item", h.RemoveItem)
		cart.POST("/clear", h.ClearCart)
		cart.POST("/apply-coupon", h.ApplyCoupon)
		cart.DELETE("/coupon", h.RemoveCoupon)
		cart.POST("/merge", middleware.RequireUser(), h.MergeCarts)
		cart.POST("/checkout", h.Checkout)
	}

	orders := shop.Group("/orders")
	{
		orders.GET("/mine", middleware.RequireUser(), h.ListMyOrders)
		orders.GET("/:code", h.GetOrder)
		orders.GET("/:code/invoice", h.DownloadInvoice)
		orders.POST("/:code/payment/verify", h.VerifyPayment)
	}
}
