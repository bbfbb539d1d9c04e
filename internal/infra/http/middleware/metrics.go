package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of leads captured by source",
		},
		[]string{"source"},
	)

	rateLimitedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of requests denied by the rate limiter",
		},
		[]string{"path"},
	)

	sequenceEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sequence_emails_total",
			Help: "Total number of sequence emails by dispatch outcome",
		},
		[]string{"outcome"},
	)

	leadsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_classified_total",
			Help: "Total number of leads classified by category",
		},
		[]string{"classification"},
	)

	subscriptionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_events_total",
			Help: "Total number of payment webhook events handled",
		},
		[]string{"type"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadCaptured(source string) {
	leadsCaptured.WithLabelValues(source).Inc()
}

func RecordRateLimited(path string) {
	rateLimitedRequests.WithLabelValues(path).Inc()
}

func RecordSequenceDispatch(sent, failed int) {
	sequenceEmails.WithLabelValues("sent").Add(float64(sent))
	sequenceEmails.WithLabelValues("failed").Add(float64(failed))
}

func RecordLeadClassified(classification string) {
	leadsClassified.WithLabelValues(classification).Inc()
}

func RecordSubscriptionEvent(eventType string) {
	subscriptionEvents.WithLabelValues(eventType).Inc()
}
