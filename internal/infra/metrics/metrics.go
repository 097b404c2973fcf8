// Package metrics exposes Prometheus collectors for dispatch, probes and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch results
const (
	ResultSent      = "sent"
	ResultFailed    = "failed"
	ResultCancelled = "cancelled"
)

// Metrics groups every collector of the service. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	messagesTotal *prometheus.CounterVec
	queueDepth    prometheus.Gauge
	probeSeconds  *prometheus.HistogramVec
	connections   *prometheus.GaugeVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge
}

// New registers the collectors on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		messagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_dispatch_messages_total",
				Help: "Messages processed by dispatch workers partitioned by result",
			},
			[]string{"result"},
		),
		queueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "courier_dispatch_queue_depth",
				Help: "Queue entries waiting across all connections",
			},
		),
		probeSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courier_server_probe_seconds",
				Help:    "Transport server liveness probe latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"server", "ok"},
		),
		connections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "courier_connections",
				Help: "Device connections partitioned by state",
			},
			[]string{"state"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_inflight_requests",
				Help: "Number of HTTP requests currently being served",
			},
		),
	}
}

// MessageProcessed counts one dispatched queue entry
func (m *Metrics) MessageProcessed(result string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(result).Inc()
}

// QueueDepthChanged adjusts the total queue depth by delta
func (m *Metrics) QueueDepthChanged(delta int) {
	if m == nil {
		return
	}
	m.queueDepth.Add(float64(delta))
}

// ProbeObserved records one server probe
func (m *Metrics) ProbeObserved(serverID string, latency time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.probeSeconds.WithLabelValues(serverID, strconv.FormatBool(ok)).Observe(latency.Seconds())
}

// ConnectionStateChanged moves one connection between state gauges. An empty state is skipped.
func (m *Metrics) ConnectionStateChanged(from, to string) {
	if m == nil {
		return
	}
	if from != "" {
		m.connections.WithLabelValues(from).Dec()
	}
	if to != "" {
		m.connections.WithLabelValues(to).Inc()
	}
}

// Middleware records request metrics using the matched route template
func (m *Metrics) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	if m == nil {
		return next
	}

	return func(c echo.Context) error {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		err := next(c)

		status := c.Response().Status
		if err != nil {
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			} else if status < http.StatusBadRequest {
				status = http.StatusInternalServerError
			}
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		labels := prometheus.Labels{
			"method": c.Request().Method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		m.httpRequestsTotal.With(labels).Inc()
		m.httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// Register adds a collector owned by another component, such as the database pool
func (m *Metrics) Register(c prometheus.Collector) error {
	if m == nil {
		return nil
	}

	return m.registry.Register(c)
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry for tests and custom exporters
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
