package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CascadeOutcomes counts delete-cascade results by entity and outcome.
	CascadeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_cascade_outcomes_total",
		Help: "Total delete cascade results by entity kind and outcome",
	}, []string{"entity", "outcome"})

	// CascadedChildren counts child rows transitioned by delete cascades.
	CascadedChildren = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_cascaded_children_total",
		Help: "Total child rows soft-deleted by cascades, by child kind",
	}, []string{"child"})

	// ReconciliationDrift counts Recount calls that found a counter out of
	// sync with the live children.
	ReconciliationDrift = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_reconciliation_drift_total",
		Help: "Total reconciliation runs that repaired a drifted counter",
	}, []string{"counter"})
)
