// Package metrics exposes Prometheus instruments for the HTTP surface and
// the data access layer.
//
// Every Manager owns its own registry so tests and multiple routers never
// collide on registration. Methods are safe on a nil *Manager, which lets
// callers that do not care about metrics pass nil.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for repository operations.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Manager holds the registry and the instruments registered on it.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry
	withRuntime      bool

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	repositoryOperations *prometheus.CounterVec
	repositoryDuration   *prometheus.HistogramVec
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace prefixes every metric name.
func WithNamespace(namespace string) Option {
	return func(m *Manager) { m.namespace = namespace }
}

// WithHistogramBuckets overrides prometheus.DefBuckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) { m.histogramBuckets = buckets }
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) { m.withRuntime = true }
}

// NewManager creates a Manager with a fresh registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})

	m.repositoryOperations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "repository_operations_total",
		Help:      "Total number of repository operations by outcome.",
	}, []string{"operation", "outcome"})

	m.repositoryDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "repository_operation_duration_seconds",
		Help:      "Repository operation latency, connection acquisition included.",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	if m.withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return m
}

// RecordHTTPRequest counts a finished request. route is the route
// template (e.g. /cars/:id), never the raw path.
func (m *Manager) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRepositoryOperation counts one data access call.
func (m *Manager) RecordRepositoryOperation(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.repositoryOperations.WithLabelValues(operation, outcome).Inc()
	m.repositoryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
