package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClassificationMetrics counts classification runs. It is shared by the api and the worker.
type ClassificationMetrics struct {
	service string

	runsTotal      *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	fallbacksTotal *prometheus.CounterVec
}

func NewClassificationMetrics(service string, registerer prometheus.Registerer) *ClassificationMetrics {
	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "runs_total",
			Help:      "Classification runs by status and confidence level.",
		},
		[]string{"service", "status", "confidence_level"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "run_duration_seconds",
			Help:      "Classification duration in seconds by status.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"service", "status"},
	)
	fallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "pattern_fallbacks_total",
			Help:      "Criteria evaluated as plain substrings because the pattern did not compile.",
		},
		[]string{"service"},
	)
	registerer.MustRegister(runsTotal, runDuration, fallbacksTotal)

	return &ClassificationMetrics{
		service:        service,
		runsTotal:      runsTotal,
		runDuration:    runDuration,
		fallbacksTotal: fallbacksTotal,
	}
}

func (m *ClassificationMetrics) ObserveClassification(status, confidenceLevel string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}
	if confidenceLevel == "" {
		confidenceLevel = "none"
	}
	m.runsTotal.WithLabelValues(m.service, status, confidenceLevel).Inc()
	m.runDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *ClassificationMetrics) ObservePatternFallbacks(count int) {
	if count <= 0 {
		return
	}
	m.fallbacksTotal.WithLabelValues(m.service).Add(float64(count))
}

// ResilienceMetrics tracks retries and circuit breaker transitions of outbound calls.
type ResilienceMetrics struct {
	service string

	retriesTotal *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
}

func NewResilienceMetrics(service string, registerer prometheus.Registerer) *ResilienceMetrics {
	retriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "retries_total",
			Help:      "Retry attempts by operation.",
		},
		[]string{"service", "operation"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "breaker_open",
			Help:      "1 when the operation's circuit breaker is open or half-open, 0 when closed.",
		},
		[]string{"service", "operation"},
	)
	registerer.MustRegister(retriesTotal, breakerState)
	return &ResilienceMetrics{service: service, retriesTotal: retriesTotal, breakerState: breakerState}
}

func (m *ResilienceMetrics) RetryAttempt(operation string) {
	m.retriesTotal.WithLabelValues(m.service, operation).Inc()
}

func (m *ResilienceMetrics) BreakerStateChanged(operation string, state string) {
	value := 1.0
	if state == "closed" {
		value = 0
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(value)
}
