package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/shopyard/ecommerce-api/controllers/order"
	paymentControllers "github.com/shopyard/ecommerce-api/controllers/payment"
	"github.com/shopyard/ecommerce-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	{
		// User endpoints (JWT)
		orders.GET("/checkout-session/:cartId", middleware.ValidateToken, paymentControllers.GetCheckoutSession(db))
		orders.POST("/:cartId", middleware.ValidateToken, orderControllers.CreateCashOrder(db))
		orders.GET("/my", middleware.ValidateToken, orderControllers.GetUserOrders(db))

		// Admin endpoints (API key)
		orders.GET("", middleware.ValidateAPIKey, orderControllers.GetAllOrders(db))
		orders.GET("/export", middleware.ValidateAPIKey, orderControllers.ExportOrdersToExcel(db))
		orders.GET("/ws", middleware.ValidateAPIKey, orderControllers.OrderWebSocketHandler)
		orders.GET("/:orderId", middleware.ValidateAPIKey, orderControllers.GetOrderByID(db))
		orders.PUT("/:orderId/pay", middleware.ValidateAPIKey, orderControllers.UpdateOrderPaidStatus(db))
		orders.PUT("/:orderId/deliver", middleware.ValidateAPIKey, orderControllers.UpdateOrderDeliveredStatus(db))
	}
}
