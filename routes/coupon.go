package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	couponControllers "github.com/shopyard/ecommerce-api/controllers/coupon"
	"github.com/shopyard/ecommerce-api/middleware"
)

func SetupCouponRoutes(r *gin.Engine, db *gorm.DB) {
	coupons := r.Group("/admin/coupons", middleware.ValidateAPIKey)
	{
		coupons.POST("", couponControllers.CreateCoupon(db))
		coupons.GET("", couponControllers.GetAllCoupons(db))
		coupons.GET("/:couponId", couponControllers.GetCoupon(db))
		coupons.PUT("/:couponId", couponControllers.UpdateCoupon(db))
		coupons.DELETE("/:couponId", couponControllers.DeleteCoupon(db))
	}
}
