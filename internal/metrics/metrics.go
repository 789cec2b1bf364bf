// Package metrics provides Prometheus metrics for the origocode server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "origocode_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "origocode_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "origocode_operations_total",
			Help: "Total number of file operations by outcome",
		},
		[]string{"op", "status"},
	)

	contentBytesRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "origocode_content_bytes_read_total",
			Help: "Total bytes of file content downloaded from the remote store",
		},
	)

	contentBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "origocode_content_bytes_written_total",
			Help: "Total bytes of file content written to the remote store",
		},
	)
)

// ObserveOperation records one completed file operation.
func ObserveOperation(op, status string) {
	operationsTotal.WithLabelValues(op, status).Inc()
}

// AddContentRead accounts bytes returned by read operations.
func AddContentRead(n int) {
	contentBytesRead.Add(float64(n))
}

// AddContentWritten accounts bytes accepted by save/append operations.
func AddContentWritten(n int) {
	contentBytesWritten.Add(float64(n))
}

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captures the response status code for labeling.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instruments an HTTP handler with request count and
// duration metrics. The path label uses the route pattern, not the raw
// URL, to keep cardinality bounded.
func Middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
