// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Registry = prometheus.NewRegistry()

var (
	TrainingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "winequality",
			Subsystem: "training",
			Name:      "runs_total",
			Help:      "Training pipeline runs by final status.",
		},
		[]string{"status"},
	)

	TrainingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "winequality",
			Subsystem: "training",
			Name:      "duration_seconds",
			Help:      "Wall time of a full training pipeline run.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	ValidationStatus = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "winequality",
			Subsystem: "validation",
			Name:      "status",
			Help:      "1 when the last dataset validation passed, 0 otherwise.",
		},
	)

	ModelScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "winequality",
			Subsystem: "model",
			Name:      "evaluation_score",
			Help:      "Evaluation metrics of the current model.",
		},
		[]string{"metric"},
	)

	ModelLoads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "winequality",
			Subsystem: "model",
			Name:      "loads_total",
			Help:      "Times the model artifact was read from disk.",
		},
	)

	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "winequality",
			Subsystem: "prediction",
			Name:      "requests_total",
			Help:      "Prediction calls by outcome.",
		},
		[]string{"outcome"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "winequality",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		TrainingRuns,
		TrainingDuration,
		ValidationStatus,
		ModelScore,
		ModelLoads,
		Predictions,
		HTTPRequests,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
