// Package metrics defines the Prometheus collectors exposed by the CLI's
// optional --metrics-addr listener, grounded on the ingest service's
// promauto registration pattern in the example pack.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the policy-evaluation core reports through.
type Metrics struct {
	RuleEvaluationsTotal *prometheus.CounterVec
	EngineDispatchLatency *prometheus.HistogramVec
	ScoreComputations    *prometheus.CounterVec
	CPESessionCacheHits  prometheus.Counter
	CPESessionCacheMisses prometheus.Counter
}

// New registers and returns a Metrics instance against the default registry.
func New() *Metrics {
	return &Metrics{
		RuleEvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "xccdfeval_rule_evaluations_total",
			Help: "Total number of Rule Runner completions, by result kind.",
		}, []string{"result"}),
		EngineDispatchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "xccdfeval_engine_dispatch_latency_seconds",
			Help:    "Latency of a single checking-engine EvalFunc call.",
			Buckets: prometheus.DefBuckets,
		}, []string{"engine", "system"}),
		ScoreComputations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "xccdfeval_score_computations_total",
			Help: "Total number of ComputeScore calls, by scoring system.",
		}, []string{"system"}),
		CPESessionCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "xccdfeval_cpe_session_cache_hits_total",
			Help: "Total number of CPE/OVAL session cache hits.",
		}),
		CPESessionCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "xccdfeval_cpe_session_cache_misses_total",
			Help: "Total number of CPE/OVAL session cache misses (loader invoked).",
		}),
	}
}

// ObserveDispatch records one engine dispatch's latency.
func (m *Metrics) ObserveDispatch(engine, system string, d time.Duration) {
	m.EngineDispatchLatency.WithLabelValues(engine, system).Observe(d.Seconds())
}
