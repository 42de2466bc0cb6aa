package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of the server on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	outcomes  *prometheus.CounterVec
	rejected  prometheus.Counter
	storeErrs prometheus.Counter
	history   *prometheus.GaugeVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recognizers",
			Name:      "requests_total",
			Help:      "API requests by operation and result code.",
		}, []string{"operation", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recognizers",
			Name:      "request_duration_seconds",
			Help:      "API request latency by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"operation"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recognizers",
			Name:      "outcomes_total",
			Help:      "Recognized expressions by culture, category and resolution success.",
		}, []string{"culture", "category", "resolved"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recognizers",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		storeErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recognizers",
			Name:      "store_errors_total",
			Help:      "Failures persisting recognition history.",
		}),
		history: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "recognizers",
			Name:      "history_rows",
			Help:      "Persisted recognitions by culture and category.",
		}, []string{"culture", "category"}),
	}
	reg.MustRegister(
		m.requests, m.latency, m.outcomes, m.rejected, m.storeErrs, m.history,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(operation, code string, d time.Duration) {
	m.requests.WithLabelValues(operation, code).Inc()
	m.latency.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveOutcome records one recognized expression.
func (m *Metrics) ObserveOutcome(culture, category string, resolved bool) {
	r := "false"
	if resolved {
		r = "true"
	}
	m.outcomes.WithLabelValues(culture, category, r).Inc()
}

// ObserveRateLimited records a rejected request.
func (m *Metrics) ObserveRateLimited() {
	m.rejected.Inc()
}

// ObserveStoreError records a failed history write.
func (m *Metrics) ObserveStoreError() {
	m.storeErrs.Inc()
}

// ObserveHistoryRows sets the persisted row count of a culture and category.
func (m *Metrics) ObserveHistoryRows(culture, category string, rows int64) {
	m.history.WithLabelValues(culture, category).Set(float64(rows))
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
