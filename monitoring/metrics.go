// Package monitoring exposes Prometheus metrics for the platform backend.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "platform_http_requests_total",
		Help: "Total HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "platform_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	adminEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "platform_admin_events_published_total",
		Help: "Admin sync events published, by event type.",
	}, []string{"event_type"})

	configBroadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "platform_config_broadcasts_total",
		Help: "Config broadcasts delivered or dropped as stale.",
	}, []string{"config_type", "outcome"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, route string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// CountAdminEvent records one published admin sync event.
func CountAdminEvent(eventType string) {
	adminEventsPublished.WithLabelValues(eventType).Inc()
}

// CountConfigBroadcast records a config broadcast outcome
// ("delivered" or "stale").
func CountConfigBroadcast(configType, outcome string) {
	configBroadcasts.WithLabelValues(configType, outcome).Inc()
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency for every handled request.
// The route label uses the raw path pattern chi matched, falling back to the
// URL path for unmatched requests.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// The pattern is only known once chi has routed the request, so
		// read it after the handler ran. Using the pattern keeps the route
		// label bounded; raw paths would mint a series per path parameter.
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		ObserveRequest(r.Method, route, rec.status, time.Since(start))
	})
}
