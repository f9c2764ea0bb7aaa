package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopyard/ecommerce-api/models"
)

func parseUintParam(c *gin.Context, name string, out *uint) error {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return err
	}
	*out = uint(v)
	return nil
}

type CashOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
}

// POST /orders/:cartId
// Cash on delivery: the order is materialized immediately and stays unpaid
// until fulfillment staff mark it paid.
func CreateCashOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var cartID uint
		if err := parseUintParam(c, "cartId", &cartID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cartId must be numeric"})
			return
		}

		var req CashOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := Materialize(db, cartID, userID, MaterializeOptions{
			PaymentMethod:   models.PaymentMethodCash,
			IsPaid:          false,
			ShippingAddress: req.ShippingAddress,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrCartNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, ErrCartEmpty), errors.Is(err, ErrInsufficientStock):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, ErrCartAlreadyCommitted):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "success", "data": order})
	}
}

// GET /orders (admin)
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/my
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderId
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderId")

		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Where("id = ? OR order_ref = ?", id, id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "there is no order with this id"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:orderId/pay (admin)
func UpdateOrderPaidStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		updateOrderStatus(c, db, map[string]interface{}{
			"is_paid": true,
			"paid_at": time.Now(),
		})
	}
}

// PUT /orders/:orderId/deliver (admin)
func UpdateOrderDeliveredStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		updateOrderStatus(c, db, map[string]interface{}{
			"is_delivered": true,
			"delivered_at": time.Now(),
		})
	}
}

// updateOrderStatus touches status fields only; line items and the order
// total are immutable once materialized.
func updateOrderStatus(c *gin.Context, db *gorm.DB, fields map[string]interface{}) {
	orderID := c.Param("orderId")

	result := db.Model(&models.Order{}).Where("id = ?", orderID).Updates(fields)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "there is no order with this id"})
		return
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": order})
}
