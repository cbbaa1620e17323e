package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the prometheus collectors exposed by the server.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	NotFoundTotal      prometheus.Counter
	RateLimitDropped   prometheus.Counter
	ReloadBroadcasts   prometheus.Counter
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coiserve_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coiserve_request_duration_seconds",
			Help:    "Request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		NotFoundTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coiserve_not_found_total",
			Help: "Total number of requests answered with 404.",
		}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coiserve_ratelimit_dropped_total",
			Help: "Total number of requests dropped by rate limiter.",
		}),
		ReloadBroadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coiserve_reload_broadcasts_total",
			Help: "Total number of live-reload notifications sent.",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.NotFoundTotal,
		m.RateLimitDropped,
		m.ReloadBroadcasts,
	)

	return m
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
		if wrapped.statusCode == http.StatusNotFound {
			m.NotFoundTotal.Inc()
		}
	})
}

// normalizeRoute collapses asset paths to keep label cardinality bounded.
func normalizeRoute(path string) string {
	switch {
	case path == "/":
		return "/"
	case path == "/static" || strings.HasPrefix(path, "/static/"):
		return "/static/*"
	case path == "/healthz" || path == "/readyz" || path == "/metrics" || path == "/livereload":
		return path
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack passes websocket upgrades through the wrapped ResponseWriter.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// Flush keeps streaming behavior for handlers that require it.
func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
