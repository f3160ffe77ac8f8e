// Package metrics exposes Prometheus counters for canvas activity.
package metrics

import (
	"time"

	"github.com/dukex/flowcanvas/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records validation and edit outcomes.
type Collector struct {
	validationsTotal   *prometheus.CounterVec
	validationDuration prometheus.Histogram
	problemsTotal      *prometheus.CounterVec
	rejectionsTotal    *prometheus.CounterVec
	operationsTotal    *prometheus.CounterVec
}

// NewCollector registers the collector's metrics on registerer.
func NewCollector(namespace string, registerer prometheus.Registerer) *Collector {
	factory := promauto.With(registerer)

	return &Collector{
		validationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of workflow validation passes",
			},
			[]string{"outcome"},
		),
		validationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Workflow validation duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		problemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_problems_total",
				Help:      "Total number of problems reported by validation",
			},
			[]string{"code", "severity"},
		),
		rejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edge_rejections_total",
				Help:      "Total number of refused connections",
			},
			[]string{"reason"},
		),
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflow_operations_total",
				Help:      "Total number of workflow operations",
			},
			[]string{"operation", "status"},
		),
	}
}

// RecordValidation counts one validation pass and each problem it found.
func (c *Collector) RecordValidation(problems []validation.Problem, duration time.Duration) {
	outcome := "valid"
	if validation.Blocking(problems) {
		outcome = "blocked"
	}

	c.validationsTotal.WithLabelValues(outcome).Inc()
	c.validationDuration.Observe(duration.Seconds())

	for _, problem := range problems {
		c.problemsTotal.WithLabelValues(string(problem.Code), string(problem.Severity)).Inc()
	}
}

func (c *Collector) RecordRejection(reason string) {
	c.rejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordOperation counts a service call by whether it returned an error.
func (c *Collector) RecordOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.operationsTotal.WithLabelValues(operation, status).Inc()
}
