package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersMaterialized counts successfully created orders by payment method.
	OrdersMaterialized = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopyard",
		Subsystem: "checkout",
		Name:      "orders_materialized_total",
		Help:      "Total number of orders materialized from carts.",
	}, []string{"payment_method"})

	// WebhookEvents counts inbound gateway notifications by type and outcome.
	WebhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopyard",
		Subsystem: "checkout",
		Name:      "webhook_events_total",
		Help:      "Total number of payment gateway webhook events received.",
	}, []string{"type", "outcome"})

	// DuplicateNotifications counts redelivered notifications that found no
	// cart to materialize and were acknowledged as no-ops.
	DuplicateNotifications = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shopyard",
		Subsystem: "checkout",
		Name:      "webhook_duplicate_notifications_total",
		Help:      "Gateway notifications ignored because the cart was already materialized.",
	})
)

func init() {
	prometheus.MustRegister(OrdersMaterialized, WebhookEvents, DuplicateNotifications)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
