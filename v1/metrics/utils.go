package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/sqlconn/v1/observability"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// ObserveOperation implements observability.Observer.
func (m *Metrics) ObserveOperation(ctx observability.OperationContext) {
	status := statusSuccess
	if ctx.Error != nil {
		status = statusError
	}

	m.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	m.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
	if ctx.Size > 0 {
		m.operationSize.WithLabelValues(ctx.Component, ctx.Operation).Observe(float64(ctx.Size))
	}
}

// createCounterVec defines a new CounterVec with standard options.
func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
