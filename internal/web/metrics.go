package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accessrecon_http_requests_total",
			Help: "Total HTTP requests served.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "accessrecon_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// metricsMiddleware records request counts and latency per normalized path.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		path := normalizePath(r.URL.Path)
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the original ResponseWriter.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// normalizePath collapses session IDs, user names, and access codes into
// placeholders so metric label cardinality stays bounded.
func normalizePath(path string) string {
	const prefix = "/api/session/"
	if !strings.HasPrefix(path, prefix) {
		return path
	}

	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 3)

	switch len(parts) {
	case 1:
		return prefix + "{id}"
	case 2:
		return prefix + "{id}/" + parts[1]
	default:
		return prefix + "{id}/" + parts[1] + "/{value}"
	}
}
