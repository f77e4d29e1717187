// Package metrics defines the Prometheus instruments exposed by the serve
// command.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Evaluations counts engine evaluations by tenant and outcome.
	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signpost_evaluations_total",
			Help: "Total number of signposting evaluations",
		},
		[]string{"tenant", "status", "category"},
	)

	// Escalations counts evaluations that produced a red-flag escalation.
	Escalations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signpost_escalations_total",
			Help: "Total number of evaluations that escalated on a red flag",
		},
		[]string{"tenant"},
	)

	// EvaluationLatency measures end-to-end evaluation handler latency.
	EvaluationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signpost_evaluation_latency_seconds",
			Help:    "Evaluation request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"status"},
	)

	// TenantConfigLookups counts tenant config resolutions by result.
	TenantConfigLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signpost_tenant_config_lookups_total",
			Help: "Total number of tenant configuration lookups",
		},
		[]string{"result"},
	)
)
