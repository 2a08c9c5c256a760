package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "insight"

// Outcomes recorded on the request counter.
const (
	OutcomeSuccess        = "success"
	OutcomeTransportError = "transport_error"
	OutcomeShapeError     = "shape_error"
)

// Metrics holds the gateway collectors. A nil *Metrics records nothing.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Tokens   *prometheus.CounterVec
}

// NewMetrics registers the gateway collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Total number of completion requests by task kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Completion round-trip latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
			},
			[]string{"kind"},
		),
		Tokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "tokens_total",
				Help:      "Total model tokens consumed by task kind",
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) ObserveRequest(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(kind, outcome).Inc()
	m.Duration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) AddTokens(kind string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.Tokens.WithLabelValues(kind).Add(float64(n))
}
