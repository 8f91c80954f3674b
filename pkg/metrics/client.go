package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ClientRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls to the PayU REST API",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "outcome"},
	)

	ClientRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of calls to the PayU REST API",
		},
		[]string{"method", "outcome"},
	)
)

func init() {
	Registry.MustRegister(ClientRequestDuration, ClientRequestsTotal)
}
