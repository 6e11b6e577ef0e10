package routes

import (
	"github.com/Govind-619/Storefront/config"
	"github.com/Govind-619/Storefront/controllers"
	"github.com/Govind-619/Storefront/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup, h *controllers.Handler, cfg *config.Config) {
	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.JWTSecret))
	{
		// Coupon management
		admin.POST("/coupons", h.CreateCoupon)
		admin.PATCH("/coupons/:id", h.UpdateCoupon)
		admin.DELETE("/coupons/:id", h.DeleteCoupon)

		// Order management
		admin.GET("/orders/export", h.ExportOrders)
		admin.GET("/orders/:code", h.AdminGetOrder)
		admin.GET("/orders/:code/invoice", h.AdminDownloadInvoice)
		admin.PATCH("/orders/:code", h.UpdateOrderStatus)
	}
}
