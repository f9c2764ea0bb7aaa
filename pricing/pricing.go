// Package pricing holds the cart and order money math. Both the cash order
// path and the card checkout path price through OrderTotal so the two can
// never drift apart.
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/shopyard/ecommerce-api/models"
)

// Tax and shipping are flat for now. If either ever becomes dynamic it only
// has to change here.
const (
	TaxPrice      = 0.0
	ShippingPrice = 0.0
)

// Subtotal sums quantity * price over all cart lines.
func Subtotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

// ApplyDiscount returns subtotal reduced by discount percent, rounded
// half-up to 2 decimal places. The result is floored at zero. Percent is
// trusted to be within [0,100]; the coupon layer guarantees that.
func ApplyDiscount(subtotal, percent float64) float64 {
	sub := decimal.NewFromFloat(subtotal)
	pct := decimal.NewFromFloat(percent)

	discounted := sub.Sub(sub.Mul(pct).Div(decimal.NewFromInt(100))).Round(2)
	if discounted.IsNegative() {
		return 0
	}
	result, _ := discounted.Float64()
	return result
}

// OrderTotal resolves the amount a checkout attempt should settle for: the
// discounted total when a coupon has been applied, the plain subtotal
// otherwise, plus tax and shipping.
func OrderTotal(cart *models.Cart) float64 {
	cartPrice := cart.TotalCartPrice
	if cart.TotalPriceAfterDiscount != nil {
		cartPrice = *cart.TotalPriceAfterDiscount
	}
	return cartPrice + TaxPrice + ShippingPrice
}
