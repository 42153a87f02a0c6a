package subscriptions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	detectionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finsight",
			Name:      "subscription_detection_runs_total",
			Help:      "Subscription detection runs by outcome",
		},
		[]string{"outcome"},
	)

	subscriptionsDetected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "finsight",
			Name:      "subscriptions_detected",
			Help:      "Subscriptions found per detection run",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)
)
