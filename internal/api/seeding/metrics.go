package seeding

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess      = "success"
	outcomeFailure      = "failure"
	outcomeUnauthorized = "unauthorized"
	outcomeForbidden    = "forbidden"
	outcomeRateLimited  = "rate_limited"
)

// Metrics records seed route outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the seed collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seedgate",
			Name:      "seed_requests_total",
			Help:      "Seed route requests by route and outcome.",
		}, []string{"route", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "seedgate",
			Name:      "seed_duration_seconds",
			Help:      "Time spent in the seeding operation.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"route"}),
	}
}

// observe records one request. Gate rejections pass a zero duration and are
// not timed.
func (m *Metrics) observe(route, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, outcome).Inc()
	if outcome == outcomeSuccess || outcome == outcomeFailure {
		m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
	}
}
