package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "dashboard_cache_requests_total",
		Help:      "Dashboard summary cache lookups by result",
	},
	[]string{"result"},
)
