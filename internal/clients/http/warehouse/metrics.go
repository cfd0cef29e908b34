package warehouse

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomeStatus    = "bad_status"
	outcomeTransport = "transport_error"
)

// Metrics tracks warehouse call outcomes and latency.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewMetrics registers the warehouse collectors on reg. A nil registerer yields unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "warehouse_requests_total",
			Help: "Warehouse API calls partitioned by outcome.",
		}, []string{"outcome"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "warehouse_request_duration_seconds",
			Help:    "Latency of warehouse API calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.latency.Observe(elapsed.Seconds())
}
