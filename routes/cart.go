package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/shopyard/ecommerce-api/controllers/cart"
	"github.com/shopyard/ecommerce-api/middleware"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart", middleware.ValidateToken)
	{
		cart.POST("", cartControllers.AddProductToCart(db))
		cart.GET("", cartControllers.GetCart(db))
		cart.DELETE("", cartControllers.ClearCart(db))

		// applyCoupon is registered before :itemId so it is not captured
		// as an item id.
		cart.PATCH("/applyCoupon", cartControllers.ApplyCoupon(db))

		cart.PATCH("/:itemId", cartControllers.UpdateCartItemQuantity(db))
		cart.DELETE("/:itemId", cartControllers.RemoveCartItem(db))
	}
}
