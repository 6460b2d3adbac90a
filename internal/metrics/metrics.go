package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funnelsim_evaluations_enqueued_total",
		Help: "Total number of evaluations placed on the worker queue.",
	})

	EvaluationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funnelsim_evaluations_dropped_total",
		Help: "Total number of evaluations rejected due to a full queue.",
	})

	Evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funnelsim_evaluations_total",
		Help: "Total number of completed evaluations, labelled by mode (simple, graph, invalid, cycle).",
	}, []string{"mode"})

	CyclesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funnelsim_cycles_detected_total",
		Help: "Total number of evaluations short-circuited by a connection cycle.",
	})

	EvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "funnelsim_evaluation_duration_ms",
		Help:    "End-to-end evaluation latency in milliseconds, queue wait included.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "funnelsim_queue_utilization_ratio",
		Help: "Current evaluation queue utilization (0–1).",
	})

	ScenarioOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funnelsim_scenario_operations_total",
		Help: "Scenario store operations, labelled by operation and status.",
	}, []string{"op", "status"})
)
