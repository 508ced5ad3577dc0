// Package metrics provides Prometheus instrumentation for shopstream.
//
// The store layer records every gateway round-trip and the current size of
// its mirrors (catalog rows, cart lines); the development gateway mounts the
// HTTP middleware and exposes everything on GET /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ─────────────────────────────────────────────
// Store-layer metrics
// ─────────────────────────────────────────────

var (
	// GatewayRequestDuration tracks remote gateway round-trips by operation
	// ("list", "insert", "update", "delete", "sign_in", ...) and outcome.
	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopstream",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duration of gateway calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"}, // outcome: "ok" | "error"
	)

	// GatewayRequestTotal counts all gateway calls.
	GatewayRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopstream",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of gateway calls.",
		},
		[]string{"operation", "outcome"},
	)

	// CatalogSize is the number of products currently mirrored in the
	// catalog cache.
	CatalogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "shopstream",
		Subsystem: "catalog",
		Name:      "cached_products",
		Help:      "Products currently held in the catalog cache.",
	})

	// CartLines is the number of line items in the cart.
	CartLines = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "shopstream",
		Subsystem: "cart",
		Name:      "line_items",
		Help:      "Line items currently in the cart.",
	})

	// RealtimeEvents counts change notifications received from the gateway.
	RealtimeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopstream",
			Subsystem: "realtime",
			Name:      "events_total",
			Help:      "Change notifications received, by change type.",
		},
		[]string{"type"}, // "INSERT" | "UPDATE" | "DELETE"
	)
)

// ─────────────────────────────────────────────
// Development gateway HTTP metrics
// ─────────────────────────────────────────────

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopstream",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests served by the dev gateway.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopstream",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
)

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry used by shopstream.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		GatewayRequestDuration,
		GatewayRequestTotal,
		CatalogSize,
		CartLines,
		RealtimeEvents,
		RequestDuration,
		RequestTotal,
	)
}

// MustRegister adds custom collectors to the shopstream registry.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// ObserveGateway records one gateway round-trip:
//
//	obs := metrics.ObserveGateway("list", time.Now())
//	defer func() { obs(err) }()
func ObserveGateway(operation string, start time.Time) func(err error) {
	return func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		GatewayRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
		GatewayRequestTotal.WithLabelValues(operation, outcome).Inc()
	}
}

// ─────────────────────────────────────────────
// HTTP middleware + /metrics endpoint
// ─────────────────────────────────────────────

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records Prometheus metrics for every dev-gateway request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the Prometheus metrics page. Mount on GET /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
