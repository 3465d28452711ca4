package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workflow and gateway metrics.
var (
	authChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massign_auth_checks_total",
			Help: "Authorization checks by outcome.",
		},
		[]string{"outcome"},
	)

	pollTicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massign_poll_ticks_total",
			Help: "Progress poll ticks by reported status.",
		},
		[]string{"status"},
	)

	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massign_jobs_total",
			Help: "Signing jobs by terminal outcome.",
		},
		[]string{"outcome"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massign_http_requests_total",
			Help: "Total number of gateway HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "massign_http_request_duration_seconds",
			Help:    "Gateway HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Init registers the metrics with the default registry.
func Init() {
	prometheus.MustRegister(authChecksTotal, pollTicksTotal, jobsTotal,
		httpRequestsTotal, httpRequestDuration)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// AuthCheck records one resolved authorization check.
func AuthCheck(outcome string) {
	authChecksTotal.WithLabelValues(outcome).Inc()
}

// PollTick records one progress poll result.
func PollTick(status string) {
	pollTicksTotal.WithLabelValues(status).Inc()
}

// JobFinished records the terminal outcome of a signing job.
func JobFinished(outcome string) {
	jobsTotal.WithLabelValues(outcome).Inc()
}

// Instrument wraps a handler with request count and latency measurement.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
	})
}

// statusWriter captures the response code for labeling.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
