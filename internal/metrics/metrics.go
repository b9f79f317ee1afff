// Package metrics records Prometheus metrics for Infisical API requests.
package metrics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// RequestMetrics implements infisical.RequestObserver.
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	failuresTotal   *prometheus.CounterVec
}

// NewRequestMetrics registers the request metrics on reg. Each registry can
// hold one RequestMetrics.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	factory := promauto.With(reg)
	return &RequestMetrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infisical_requests_total",
				Help: "Total number of Infisical API requests by operation and status code",
			},
			[]string{"operation", "method", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "infisical_request_duration_seconds",
				Help:    "Duration of Infisical API requests in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		failuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infisical_request_failures_total",
				Help: "Total number of Infisical API requests that failed, by kind (transport, client, server)",
			},
			[]string{"operation", "kind"},
		),
	}
}

// ObserveRequest records one HTTP exchange. A zero status code marks a
// transport failure.
func (m *RequestMetrics) ObserveRequest(operation, method string, statusCode int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(operation, method, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())

	switch {
	case statusCode == 0:
		m.failuresTotal.WithLabelValues(operation, "transport").Inc()
	case statusCode >= 500:
		m.failuresTotal.WithLabelValues(operation, "server").Inc()
	case statusCode >= 400:
		m.failuresTotal.WithLabelValues(operation, "client").Inc()
	}
}

// RequestsTotal returns the request counter for testing.
func (m *RequestMetrics) RequestsTotal() *prometheus.CounterVec {
	return m.requestsTotal
}

// FailuresTotal returns the failure counter for testing.
func (m *RequestMetrics) FailuresTotal() *prometheus.CounterVec {
	return m.failuresTotal
}

// WriteText gathers g and writes it in the Prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	return writeFamilies(w, families)
}

func writeFamilies(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
