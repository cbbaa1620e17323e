package server

import (
	"log/slog"
	"net/http"

	"github.com/nkoval/coiserve/internal/cors"
	"github.com/nkoval/coiserve/internal/httpx"
	"github.com/nkoval/coiserve/internal/isolation"
	"github.com/nkoval/coiserve/internal/livereload"
	"github.com/nkoval/coiserve/internal/metrics"
	"github.com/nkoval/coiserve/internal/ratelimit"
	"github.com/nkoval/coiserve/internal/webroot"
	"github.com/nkoval/coiserve/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires routes and the middleware chain.
type Router struct {
	cfg      *config.Config
	webroot  *webroot.Handler
	reload   *livereload.Handler
	limiter  *ratelimit.Limiter
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	logger   *slog.Logger
}

// NewRouter creates a router. reload may be nil when live reload is disabled.
func NewRouter(
	cfg *config.Config,
	webrootHandler *webroot.Handler,
	reloadHandler *livereload.Handler,
	limiter *ratelimit.Limiter,
	m *metrics.Metrics,
	registry *prometheus.Registry,
	logger *slog.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		webroot:  webrootHandler,
		reload:   reloadHandler,
		limiter:  limiter,
		metrics:  m,
		registry: registry,
		logger:   logger,
	}
}

// Setup registers all routes and returns the complete handler.
func (rt *Router) Setup() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints are intentionally plain for probes.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))

	if rt.reload != nil {
		mux.Handle("/livereload", rt.reload)
	}

	mux.Handle("/static/", http.StripPrefix("/static/", http.HandlerFunc(rt.webroot.ServeAsset)))

	// "/" also doubles as the not-found fallback for unmatched routes.
	mux.HandleFunc("/", rt.webroot.ServeIndex)

	// Isolation and CORS sit outside the mux so their headers reach every
	// response, including 404s and rate-limit rejections.
	var handler http.Handler = mux
	handler = httpx.Compression(handler)
	handler = rt.limiter.Middleware(rt.metrics, handler)
	handler = rt.metrics.Middleware(handler)
	handler = cors.Middleware(cors.Config{
		AllowedOrigins: rt.cfg.CORS.AllowedOrigins,
		MaxAge:         rt.cfg.CORS.MaxAge,
	}, handler)
	handler = isolation.Middleware(handler)
	handler = httpx.WithRecovery(rt.logger, handler)
	handler = httpx.WithRequestID(handler)
	handler = httpx.WithLogging(rt.logger, handler)

	return handler
}
