package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/shopyard/ecommerce-api/controllers/product"
)

func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		products.GET("", productControllers.GetAllProducts(db))
		products.GET("/:productId", productControllers.GetProductByID(db))
	}
}
