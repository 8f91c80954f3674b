package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	KafkaPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kafka",
			Name:      "publish_duration_seconds",
			Help:      "Time spent writing a notification envelope to Kafka",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"topic", "status"},
	)

	KafkaMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of notification envelopes published to Kafka",
		},
		[]string{"topic", "status"},
	)
)

func init() {
	Registry.MustRegister(KafkaPublishDuration, KafkaMessagesPublished)
}
