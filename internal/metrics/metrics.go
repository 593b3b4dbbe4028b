package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	MessagesSubmitted  prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	Redirects          *prometheus.CounterVec
	ClickUpdates       prometheus.Counter
	ClickFailures      *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates and registers all metrics on a fresh registry, together with
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MessagesSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "sunriseyouth_messages_submitted_total",
			Help: "Total number of contact messages stored",
		}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunriseyouth_validation_failures_total",
			Help: "Total number of rejected documents by schema",
		}, []string{"schema"}),
		Redirects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunriseyouth_qr_redirects_total",
			Help: "Total number of QR code lookups by outcome",
		}, []string{"outcome"}),
		ClickUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "sunriseyouth_qr_click_updates_total",
			Help: "Total number of click counter increments applied",
		}),
		ClickFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunriseyouth_qr_click_failures_total",
			Help: "Total number of click counter increments lost",
		}, []string{"reason"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunriseyouth_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sunriseyouth_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncrementMessagesSubmitted counts one stored contact message.
func (m *Metrics) IncrementMessagesSubmitted() {
	if m == nil {
		return
	}
	m.MessagesSubmitted.Inc()
}

// IncrementValidationFailures counts one document rejected by schema.
func (m *Metrics) IncrementValidationFailures(schema string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(schema).Inc()
}

// IncrementRedirects counts one QR lookup; outcome is "found", "not_found"
// or "error".
func (m *Metrics) IncrementRedirects(outcome string) {
	if m == nil {
		return
	}
	m.Redirects.WithLabelValues(outcome).Inc()
}

// IncrementClickUpdates counts one applied click increment.
func (m *Metrics) IncrementClickUpdates() {
	if m == nil {
		return
	}
	m.ClickUpdates.Inc()
}

// IncrementClickFailures counts one lost click increment.
func (m *Metrics) IncrementClickFailures(reason string) {
	if m == nil {
		return
	}
	m.ClickFailures.WithLabelValues(reason).Inc()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
