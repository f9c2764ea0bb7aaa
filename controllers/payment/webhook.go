package paymentControllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/shopyard/ecommerce-api/controllers/order"
	"github.com/shopyard/ecommerce-api/metrics"
	"github.com/shopyard/ecommerce-api/models"
)

const eventCheckoutCompleted = "checkout.session.completed"

// WebhookEvent is the envelope the gateway posts to us.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object SessionObject `json:"object"`
	} `json:"data"`
}

// SessionObject is the completed checkout session inside the event.
type SessionObject struct {
	ID                string            `json:"id"`
	ClientReferenceID string            `json:"client_reference_id"`
	CustomerEmail     string            `json:"customer_email"`
	AmountTotal       int64             `json:"amount_total"` // minor currency units
	Metadata          map[string]string `json:"metadata"`
}

// POST /webhook-checkout
//
// The gateway redelivers notifications until it sees a 2xx, so everything
// past signature verification must acknowledge — including "cart not found",
// which is exactly what a redelivery of an already-processed notification
// looks like: materialization deleted the cart, so there is nothing left to
// do, and that is the success case.
func WebhookCheckout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		// Verification runs on the raw bytes as received.
		sig := c.GetHeader("Stripe-Signature")
		secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		if err := VerifyWebhookSignature(payload, sig, secret, time.Now()); err != nil {
			log.Printf("webhook signature verification failed: %v", err)
			metrics.WebhookEvents.WithLabelValues("unknown", "signature_failure").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var event WebhookEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
			return
		}

		if event.Type != eventCheckoutCompleted {
			metrics.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		outcome := reconcileCompletedSession(db, event.Data.Object)
		metrics.WebhookEvents.WithLabelValues(event.Type, outcome).Inc()
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// reconcileCompletedSession drives the order materializer for a settled
// checkout session. Failures here are reconciliation failures, not request
// failures: they are logged and the notification is still acknowledged.
func reconcileCompletedSession(db *gorm.DB, session SessionObject) (outcome string) {
	cartID, err := strconv.ParseUint(session.ClientReferenceID, 10, 32)
	if err != nil {
		log.Printf("webhook: unusable client_reference_id %q", session.ClientReferenceID)
		return "bad_reference"
	}

	var user models.User
	if err := db.First(&user, "email = ?", session.CustomerEmail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("webhook: no user with email %s for session %s", session.CustomerEmail, session.ID)
			return "user_not_found"
		}
		log.Printf("webhook: user lookup failed for session %s: %v", session.ID, err)
		return "error"
	}

	settled := float64(session.AmountTotal) / 100

	order, err := orderControllers.Materialize(db, uint(cartID), user.ID, orderControllers.MaterializeOptions{
		PaymentMethod: models.PaymentMethodCard,
		IsPaid:        true,
		SettledTotal:  &settled,
		ShippingAddress: models.ShippingAddress{
			Details:    session.Metadata["details"],
			Phone:      session.Metadata["phone"],
			City:       session.Metadata["city"],
			PostalCode: session.Metadata["postal_code"],
		},
	})
	switch {
	case err == nil:
		log.Printf("webhook: order %s created for session %s", order.OrderRef, session.ID)
		return "materialized"
	case errors.Is(err, orderControllers.ErrCartNotFound),
		errors.Is(err, orderControllers.ErrCartAlreadyCommitted):
		// The cart is gone, therefore a prior delivery already materialized
		// the order. Acknowledge so the gateway stops retrying.
		metrics.DuplicateNotifications.Inc()
		log.Printf("webhook: cart %d already materialized, ignoring redelivery of session %s", cartID, session.ID)
		return "duplicate"
	default:
		// Cart intact, nothing applied; a later redelivery can retry.
		log.Printf("webhook: failed to materialize cart %d for session %s: %v", cartID, session.ID, err)
		return "error"
	}
}
