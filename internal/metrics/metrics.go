// Package metrics exposes Prometheus collectors for the HTTP layer, the
// analytics operations and the event stream.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one registry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	inputSize         *prometheus.HistogramVec
	events            *prometheus.CounterVec
}

// New creates the collectors on a fresh registry so repeated calls never
// conflict.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "operations_total",
			Help:      "Analytics operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "operation_duration_seconds",
			Help:      "Analytics operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"operation"}),
		inputSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "input_size",
			Help:      "Number of grades or values per analytics operation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"operation"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Analytics events by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(m.requests, m.requestDuration, m.operations,
		m.operationDuration, m.inputSize, m.events)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveOperation records one analytics operation over size inputs
func (m *Metrics) ObserveOperation(operation string, size int, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome(err)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
	m.inputSize.WithLabelValues(operation).Observe(float64(size))
}

// ObserveEvent records one publish attempt
func (m *Metrics) ObserveEvent(err error) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(outcome(err)).Inc()
}

// FiberMiddleware records every request under its route pattern, so path
// parameters do not create new series.
func (m *Metrics) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		m.ObserveRequest(c.Route().Path, c.Method(), status, time.Since(start))
		return err
	}
}
