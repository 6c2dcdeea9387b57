package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		PaymentVerifyRequests,
		PaymentVerifyDuration,
		PaymentNotifyTotal,
	)
}

var (
	// Count of verify calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): bad_signature|not_found|not_pending|ownership|pack_mismatch|unknown
	PaymentVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_requests_total",
			Help: "Count of /api/payments/verify calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of verify handler grouped by result.
	PaymentVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verify_duration_seconds",
			Help:    "Duration of /api/payments/verify handler in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)

	// Post-purchase notifications grouped by channel and status.
	// channel: email|telegram
	// status: sent|error
	PaymentNotifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_notify_total",
			Help: "Post-purchase notifications by channel and delivery status.",
		},
		[]string{"channel", "status"},
	)
)

func IncPaymentNotify(channel, status string) {
	PaymentNotifyTotal.WithLabelValues(norm(channel), norm(status)).Inc()
}
