package ioserver

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Query outcomes.
const (
	outcomeResolved   = "resolved"
	outcomeAmbiguous  = "ambiguous"
	outcomeNoResult   = "no_result"
	outcomeBadRequest = "bad_request"
	outcomeError      = "error"
)

type metrics struct {
	queries   *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func newMetrics(reg *prometheus.Registry) (*metrics, error) {
	m := &metrics{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dscat_queries_total",
				Help: "Catalog queries partitioned by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dscat_query_cache_hits_total",
				Help: "Catalog queries answered from the response cache.",
			},
			[]string{"endpoint"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dscat_query_duration_seconds",
				Help:    "Time taken to resolve a catalog query.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
	for _, c := range []prometheus.Collector{m.queries, m.cacheHits, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
