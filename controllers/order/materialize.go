package orderControllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopyard/ecommerce-api/metrics"
	"github.com/shopyard/ecommerce-api/models"
	"github.com/shopyard/ecommerce-api/pricing"
)

var (
	ErrCartNotFound = errors.New("there is no cart with this id")
	ErrCartEmpty    = errors.New("cart is empty")
	// ErrCartAlreadyCommitted means another materialization claimed the cart
	// between our read and our delete. The order it created stands; this
	// attempt must not create a second one.
	ErrCartAlreadyCommitted = errors.New("cart already committed to an order")
	ErrInsufficientStock    = errors.New("insufficient stock")
)

// MaterializeOptions carries the fulfillment-specific fields of a checkout
// attempt. SettledTotal, when set, is the amount the gateway actually
// captured and overrides the locally computed total.
type MaterializeOptions struct {
	PaymentMethod   models.PaymentMethod
	IsPaid          bool
	ShippingAddress models.ShippingAddress
	SettledTotal    *float64
}

// Materialize turns a priced cart into an immutable order. The whole
// transition runs in one transaction:
//
//  1. load the cart with its lines;
//  2. delete the cart row — this is the claim. A cart that is already gone
//     means some other request (a concurrent cash order, a redelivered
//     webhook) won, and we back out without touching anything;
//  3. snapshot the lines into an Order;
//  4. decrement stock and increment sold per line, guarded so stock cannot
//     go negative; a line that cannot be covered rolls the whole thing back,
//     cart included.
//
// Cart deletion committing together with the order is what makes gateway
// notification redelivery safe: a second delivery finds no cart and no-ops.
func Materialize(db *gorm.DB, cartID uint, userID string, opts MaterializeOptions) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items").First(&cart, "id = ?", cartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		res := tx.Delete(&models.Cart{}, cart.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCartAlreadyCommitted
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		total := pricing.OrderTotal(&cart)
		if opts.SettledTotal != nil {
			total = *opts.SettledTotal
		}

		order = models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          userID,
			TotalOrderPrice: total,
			TaxPrice:        pricing.TaxPrice,
			ShippingPrice:   pricing.ShippingPrice,
			ShippingAddress: opts.ShippingAddress,
			PaymentMethod:   opts.PaymentMethod,
			CreatedAt:       time.Now(),
		}
		if opts.IsPaid {
			now := time.Now()
			order.IsPaid = true
			order.PaidAt = &now
		}
		for _, item := range cart.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Color:     item.Color,
				Price:     item.Price,
				Quantity:  item.Quantity,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Conditional decrement instead of read-modify-write: concurrent
		// orders for the same product race on the database row, not on
		// stale in-memory copies.
		for _, item := range cart.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", item.ProductID, item.Quantity).
				UpdateColumns(map[string]interface{}{
					"quantity": gorm.Expr("quantity - ?", item.Quantity),
					"sold":     gorm.Expr("sold + ?", item.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w for product %d", ErrInsufficientStock, item.ProductID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersMaterialized.WithLabelValues(string(opts.PaymentMethod)).Inc()
	broadcastNewOrder(order)
	return &order, nil
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
