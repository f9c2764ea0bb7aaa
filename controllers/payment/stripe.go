package paymentControllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopyard/ecommerce-api/models"
	"github.com/shopyard/ecommerce-api/pricing"
)

const defaultCheckoutSessionsURL = "https://api.stripe.com/v1/checkout/sessions"

// CheckoutSession is the slice of the gateway's session object we care about.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type checkoutSessionResponse struct {
	CheckoutSession
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func getStripeConfig() (secretKey, apiURL, successURL, cancelURL, currency string, err error) {
	secretKey = os.Getenv("STRIPE_SECRET_KEY")
	apiURL = os.Getenv("STRIPE_API_URL")
	if apiURL == "" {
		apiURL = defaultCheckoutSessionsURL
	}
	successURL = os.Getenv("SUCCESS_URL")
	cancelURL = os.Getenv("CANCEL_URL")
	currency = os.Getenv("CHECKOUT_CURRENCY")
	if currency == "" {
		currency = "usd"
	}

	if secretKey == "" || successURL == "" || cancelURL == "" {
		return "", "", "", "", "", fmt.Errorf("stripe configuration missing")
	}
	return secretKey, apiURL, successURL, cancelURL, currency, nil
}

// createCheckoutSession registers a payment session with the gateway. The
// cart id travels as client_reference_id so the asynchronous notification
// can be matched back to the cart that started the checkout.
func createCheckoutSession(total float64, customerName, customerEmail string, cartID uint, addr models.ShippingAddress) (*CheckoutSession, error) {
	secretKey, apiURL, successURL, cancelURL, currency, err := getStripeConfig()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", currency)
	form.Set("line_items[0][price_data][product_data][name]", "Order for "+customerName)
	// The gateway expects the amount in the smallest currency unit.
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(int64(math.Round(total*100)), 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("customer_email", customerEmail)
	form.Set("client_reference_id", strconv.FormatUint(uint64(cartID), 10))
	form.Set("metadata[details]", addr.Details)
	form.Set("metadata[phone]", addr.Phone)
	form.Set("metadata[city]", addr.City)
	form.Set("metadata[postal_code]", addr.PostalCode)

	req, err := http.NewRequest(http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+secretKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var session checkoutSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if session.Error != nil {
		return nil, fmt.Errorf("gateway error: %s", session.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway error (%d): %s", resp.StatusCode, string(body))
	}
	if session.URL == "" {
		return nil, errors.New("gateway returned empty redirect url")
	}
	return &session.CheckoutSession, nil
}

// GET /orders/checkout-session/:cartId
// Starting a checkout does not touch the cart: the user can abandon the
// gateway page and keep shopping with the same cart.
func GetCheckoutSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var cart models.Cart
		if err := db.First(&cart, "id = ?", c.Param("cartId")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No cart found with that ID"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}

		var req struct {
			ShippingAddress models.ShippingAddress `json:"shipping_address"`
		}
		_ = c.ShouldBindJSON(&req)

		session, err := createCheckoutSession(pricing.OrderTotal(&cart), user.Name, user.Email, cart.ID, req.ShippingAddress)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":       "success",
			"session_id":   session.ID,
			"redirect_url": session.URL,
		})
	}
}
