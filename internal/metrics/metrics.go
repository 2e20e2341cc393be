// Package metrics defines the Prometheus collectors tradedesk updates:
//
//	tradedesk_orders_submitted_total{side}          orders acknowledged by the backend
//	tradedesk_order_rejections_total{reason}        orders refused by form validation
//	tradedesk_backend_call_seconds{op}              simulated backend latency per call
//	tradedesk_sessions_total{method}                sessions opened by login method
//	tradedesk_stream_clients                        connected price stream clients
//	tradedesk_http_requests_total{method,status}    served HTTP requests
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	ordersSubmitted *prometheus.CounterVec
	orderRejections *prometheus.CounterVec
	backendCalls    *prometheus.HistogramVec
	sessions        *prometheus.CounterVec
	streamClients   prometheus.Gauge
	httpRequests    *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ordersSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradedesk_orders_submitted_total",
				Help: "Orders acknowledged by the backend",
			},
			[]string{"side"},
		),
		orderRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradedesk_order_rejections_total",
				Help: "Orders refused by form validation",
			},
			[]string{"reason"},
		),
		backendCalls: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradedesk_backend_call_seconds",
				Help:    "Duration of backend calls including simulated latency",
				Buckets: []float64{0.001, 0.01, 0.1, 0.25, 0.5, 0.75, 1, 2},
			},
			[]string{"op"},
		),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradedesk_sessions_total",
				Help: "Sessions opened, split by login method",
			},
			[]string{"method"},
		),
		streamClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradedesk_stream_clients",
				Help: "Connected price stream clients",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradedesk_http_requests_total",
				Help: "HTTP requests served",
			},
			[]string{"method", "status"},
		),
	}

	m.registry.MustRegister(
		m.ordersSubmitted,
		m.orderRejections,
		m.backendCalls,
		m.sessions,
		m.streamClients,
		m.httpRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// OrderSubmitted counts an acknowledged order by side.
func (m *Metrics) OrderSubmitted(side string) {
	m.ordersSubmitted.WithLabelValues(side).Inc()
}

// OrderRejected counts an order refused for reason.
func (m *Metrics) OrderRejected(reason string) {
	m.orderRejections.WithLabelValues(reason).Inc()
}

// ObserveBackendCall records how long a backend operation took.
func (m *Metrics) ObserveBackendCall(op string, d time.Duration) {
	m.backendCalls.WithLabelValues(op).Observe(d.Seconds())
}

// SessionOpened counts a session opened through method.
func (m *Metrics) SessionOpened(method string) {
	m.sessions.WithLabelValues(method).Inc()
}

// StreamClientConnected increments the connected stream client gauge.
func (m *Metrics) StreamClientConnected() {
	m.streamClients.Inc()
}

// StreamClientDisconnected decrements the connected stream client gauge.
func (m *Metrics) StreamClientDisconnected() {
	m.streamClients.Dec()
}

// HTTPRequest counts a served request by method and status code.
func (m *Metrics) HTTPRequest(method, status string) {
	m.httpRequests.WithLabelValues(method, status).Inc()
}
