package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopyard/ecommerce-api/models"
	"github.com/shopyard/ecommerce-api/pricing"
)

type AddItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Color     string `json:"color"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type ApplyCouponRequest struct {
	Coupon string `json:"coupon" binding:"required"`
}

// recomputeTotals reloads the cart, recomputes the subtotal from its lines and
// clears any previously applied coupon total. Every cart mutation goes through
// here: a stale discount must never survive a change to the lines it was
// computed from.
func recomputeTotals(db *gorm.DB, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := db.Preload("Items").First(&cart, "id = ?", cartID).Error; err != nil {
		return nil, err
	}

	cart.TotalCartPrice = pricing.Subtotal(cart.Items)
	cart.TotalPriceAfterDiscount = nil

	if err := db.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
		"total_cart_price":           cart.TotalCartPrice,
		"total_price_after_discount": nil,
	}).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// POST /cart
func AddProductToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		// Create-if-absent must be atomic: two concurrent adds for the same
		// user race on the user_id unique index, and the loser re-reads the
		// winner's cart instead of failing.
		cart := models.Cart{UserID: userID}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&cart).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cart"})
			return
		}
		if cart.ID == 0 {
			if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
				return
			}
		}

		// One line per (product, color): an existing line gets its quantity
		// bumped and keeps the price snapshotted when it was first added.
		item := models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Color:     req.Color,
			Price:     product.Price,
			Quantity:  1,
			AddedAt:   time.Now(),
		}
		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}, {Name: "color"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("quantity + 1"),
			}),
		}).Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		updated, err := recomputeTotals(db, cart.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart totals"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product added successfully to cart", "cart": updated})
	}
}

// PATCH /cart/:itemId
func UpdateCartItemQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)
		itemID := c.Param("itemId")

		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "There is no cart for this user"})
			return
		}

		result := db.Model(&models.CartItem{}).
			Where("id = ? AND cart_id = ?", itemID, cart.ID).
			Update("quantity", req.Quantity)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "There is no item with this id"})
			return
		}

		updated, err := recomputeTotals(db, cart.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart totals"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /cart/:itemId
func RemoveCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)
		itemID := c.Param("itemId")

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "There is no cart for this user"})
			return
		}

		result := db.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "There is no item with this id"})
			return
		}

		updated, err := recomputeTotals(db, cart.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart totals"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.Status(http.StatusNoContent)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		if err := db.Delete(&models.Cart{}, cart.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "There is no cart for this user"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"num_of_cart_items": len(cart.Items), "cart": cart})
	}
}

// PATCH /cart/applyCoupon
func ApplyCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var req ApplyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Wrong name and expired coupon are deliberately the same error:
		// coupon existence is not probeable through this endpoint.
		var coupon models.Coupon
		if err := db.Where("name = ? AND expire > ?", req.Coupon, time.Now()).First(&coupon).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired coupon"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up coupon"})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "There is no cart for this user"})
			return
		}

		discounted := pricing.ApplyDiscount(cart.TotalCartPrice, coupon.Discount)
		cart.TotalPriceAfterDiscount = &discounted

		if err := db.Model(&models.Cart{}).Where("id = ?", cart.ID).
			Update("total_price_after_discount", discounted).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply coupon"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"num_of_cart_items": len(cart.Items), "cart": cart})
	}
}
