package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	auditRecorded     *prometheus.CounterVec
	auditRecordErrors prometheus.Counter
	auditSwept        prometheus.Counter
}

// NewMetrics initialises the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atrium_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atrium_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	auditRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atrium_audit_entries_total",
		Help: "Audit entries recorded by action and module.",
	}, []string{"action", "module"})
	auditRecordErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atrium_audit_record_failures_total",
		Help: "Audit writes that failed and were swallowed.",
	})
	auditSwept := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atrium_audit_entries_swept_total",
		Help: "Audit entries removed by the retention sweeper.",
	})
	registry.MustRegister(requests, duration, auditRecorded, auditRecordErrors, auditSwept)
	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:     requests,
		requestDuration:   duration,
		auditRecorded:     auditRecorded,
		auditRecordErrors: auditRecordErrors,
		auditSwept:        auditSwept,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// AuditRecorded counts one persisted audit entry.
func (m *Metrics) AuditRecorded(action, module string) {
	if m == nil {
		return
	}
	m.auditRecorded.WithLabelValues(action, module).Inc()
}

// AuditRecordFailed counts one swallowed audit write failure.
func (m *Metrics) AuditRecordFailed() {
	if m == nil {
		return
	}
	m.auditRecordErrors.Inc()
}

// AuditSwept counts entries removed by the retention sweeper.
func (m *Metrics) AuditSwept(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.auditSwept.Add(float64(count))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
