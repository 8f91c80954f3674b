package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// WebhookValidations counts notifications by outcome: "verified" or the
	// failure kind (missing_signature, signature_mismatch, payload_parse, ...).
	WebhookValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "validations_total",
			Help:      "Total number of PayU notifications validated, by outcome",
		},
		[]string{"outcome"},
	)

	WebhookNotifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "notifications_total",
			Help:      "Verified notifications by order status and dispatch result",
		},
		[]string{"status", "result"},
	)
)

func init() {
	Registry.MustRegister(WebhookValidations, WebhookNotifications)
}
