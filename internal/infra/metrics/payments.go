package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		webhookSignatureFailures,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payments by status (initiated/pending/succeeded/failed/refunded).",
		},
		[]string{"status"},
	)

	webhookSignatureFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_webhook_signature_failures_total",
			Help: "Inbound payment notifications rejected for a bad signature.",
		},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(status).Inc()
}

func IncWebhookSignatureFailure() {
	webhookSignatureFailures.Inc()
}
