package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "equitysight",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of stock endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EndpointErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equitysight",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by stock endpoint",
		},
		[]string{"endpoint"},
	)

	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equitysight",
			Subsystem: "providers",
			Name:      "requests_total",
			Help:      "Upstream provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equitysight",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by store and outcome",
		},
		[]string{"store", "outcome"},
	)

	HistoryAppends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equitysight",
			Subsystem: "history",
			Name:      "appends_total",
			Help:      "Feature history appends by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			EndpointLatency,
			EndpointErrors,
			ProviderRequests,
			CacheLookups,
			HistoryAppends,
		)
	})
}
