package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		entitlementGrantsTotal,
		downloadsTotal,
	)
}

var (
	entitlementGrantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_grants_total",
			Help: "Entitlement grants written after verified payments, by resulting status.",
		},
		[]string{"status"}, // 'premium', 'lifetime'
	)

	downloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_downloads_total",
			Help: "PDF download attempts by outcome.",
		},
		[]string{"result"}, // 'free', 'granted', 'denied'
	)
)

func IncGrant(status string) {
	entitlementGrantsTotal.WithLabelValues(norm(status)).Inc()
}

func IncDownload(result string) {
	downloadsTotal.WithLabelValues(norm(result)).Inc()
}
