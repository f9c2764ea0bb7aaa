package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Cart routes (JWT-protected)
	SetupCartRoutes(r, db)

	// Order routes (user + admin)
	SetupOrderRoutes(r, db)

	// Coupon admin routes (API-key-protected)
	SetupCouponRoutes(r, db)

	// Catalog read routes
	SetupProductRoutes(r, db)

	// Payment gateway webhook
	SetupPaymentRoutes(r, db)
}
