package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/shopyard/ecommerce-api/controllers/payment"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB) {
	// No auth middleware: the gateway authenticates itself through the
	// signature over the raw body.
	r.POST("/webhook-checkout", paymentControllers.WebhookCheckout(db))
}
