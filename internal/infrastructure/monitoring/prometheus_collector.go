package monitoring

import (
	"time"

	"mediroom/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	// Counters
	tokensIssuedTotal      *prometheus.CounterVec
	tokenFailuresTotal     prometheus.Counter
	recordingsStartedTotal prometheus.Counter
	recordingsStoppedTotal prometheus.Counter
	egressFailuresTotal    prometheus.Counter

	// Gauges
	activeSessionsTotal prometheus.Gauge

	// Histograms
	httpRequestDuration   *prometheus.HistogramVec
	tokenIssuanceDuration prometheus.Histogram
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		tokensIssuedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediroom_tokens_issued_total",
			Help: "Total number of access tokens issued, by participant role",
		}, []string{"role"}),

		tokenFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediroom_token_failures_total",
			Help: "Total number of failed token generation attempts",
		}),

		recordingsStartedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediroom_recordings_started_total",
			Help: "Total number of recordings started via the egress API",
		}),

		recordingsStoppedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediroom_recordings_stopped_total",
			Help: "Total number of recordings stopped via the egress API",
		}),

		egressFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediroom_egress_failures_total",
			Help: "Total number of failed egress API calls",
		}),

		activeSessionsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mediroom_active_sessions_total",
			Help: "Number of unexpired consultation sessions",
		}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediroom_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),

		tokenIssuanceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mediroom_token_issuance_duration_seconds",
			Help:    "Duration of token issuance including signing",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
}

func (c *PrometheusCollector) RecordTokenIssued(role domain.Role, duration time.Duration) {
	c.tokensIssuedTotal.WithLabelValues(string(role)).Inc()
	c.tokenIssuanceDuration.Observe(duration.Seconds())
}

func (c *PrometheusCollector) RecordTokenFailure() {
	c.tokenFailuresTotal.Inc()
}

func (c *PrometheusCollector) RecordRecordingStarted() {
	c.recordingsStartedTotal.Inc()
}

func (c *PrometheusCollector) RecordRecordingStopped() {
	c.recordingsStoppedTotal.Inc()
}

func (c *PrometheusCollector) RecordEgressFailure() {
	c.egressFailuresTotal.Inc()
}

func (c *PrometheusCollector) SetActiveSessions(count int) {
	c.activeSessionsTotal.Set(float64(count))
}

func (c *PrometheusCollector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	c.httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
