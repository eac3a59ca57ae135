package service

import (
	"time"

	"github.com/dchubs/hub/pkg/httpx"
	"github.com/prometheus/client_golang/prometheus"
)

// Delivery outcomes used as the result label.
const (
	resultDelivered = "delivered"
	resultSkipped   = "skipped"
	resultFailed    = "failed"
)

// Metrics records webhook deliveries. A nil *Metrics records nothing.
type Metrics struct {
	deliveries *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	deliveries, err := httpx.RegisterCollector(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_deliveries_total",
		Help:      "Vote notifications by outcome.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	duration, err := httpx.RegisterCollector(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "webhook_delivery_duration_seconds",
		Help:      "Outbound webhook latency by payload format.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"format"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{deliveries: deliveries, duration: duration}, nil
}

func (m *Metrics) delivery(result string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(result).Inc()
}

func (m *Metrics) latency(format string, d time.Duration) {
	if m == nil || d <= 0 {
		return
	}
	m.duration.WithLabelValues(format).Observe(d.Seconds())
}
