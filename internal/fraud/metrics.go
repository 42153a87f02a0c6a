package fraud

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "fraud_assessments_total",
		Help:      "Fraud assessments by resulting risk level",
	}, []string{"risk_level"})

	ruleHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "fraud_rule_hits_total",
		Help:      "Number of times each fraud rule fired",
	}, []string{"rule"})

	alertsRaisedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "fraud_alerts_raised_total",
		Help:      "Fraud alerts raised by severity",
	}, []string{"severity"})
)
