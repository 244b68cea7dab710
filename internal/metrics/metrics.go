package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the TaskHub backend.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Auth gate metrics.
	AuthFailuresTotal  *prometheus.CounterVec
	AuthSuccessesTotal prometheus.Counter

	// Tag resolver metrics.
	TagResolveConflictsTotal prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskhub_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskhub_auth_failures_total",
			Help: "Total number of authentication failures by rejection kind.",
		}, []string{"kind"}),

		AuthSuccessesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskhub_auth_successes_total",
			Help: "Total number of successful authentications.",
		}),

		TagResolveConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskhub_tag_resolve_conflicts_total",
			Help: "Total number of tag find-or-create races recovered via re-fetch.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taskhub_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.TagResolveConflictsTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, pathPattern string, statusCode int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, fmt.Sprintf("%d", statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(seconds)
}

// IncAuthFailure increments the auth failure counter for the given rejection kind.
func (m *Metrics) IncAuthFailure(kind string) {
	m.AuthFailuresTotal.WithLabelValues(kind).Inc()
}

// IncAuthSuccess increments the auth success counter.
func (m *Metrics) IncAuthSuccess() {
	m.AuthSuccessesTotal.Inc()
}

// IncTagResolveConflict increments the recovered tag-race counter.
func (m *Metrics) IncTagResolveConflict() {
	m.TagResolveConflictsTotal.Inc()
}
