package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts vendor API requests by endpoint group and outcome.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanfeed_api_requests_total",
		Help: "Total number of vendor API requests by group and outcome",
	}, []string{"group", "outcome"})

	// StoreFallbacks counts degradations of the local store to memory.
	StoreFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fanfeed_store_fallback_total",
		Help: "Total number of times the local store fell back to memory",
	})

	// OptimisticRollbacks counts failed optimistic writes rolled back.
	OptimisticRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanfeed_optimistic_rollbacks_total",
		Help: "Total number of optimistic interaction rollbacks by kind",
	}, []string{"kind"})
)
