package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teammatch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	ledgerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teammatch_ledger_transitions_total",
			Help: "Application ledger transitions by kind",
		},
		[]string{"transition"},
	)
	projectEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teammatch_project_events_total",
			Help: "Project directory mutations by kind",
		},
		[]string{"event"},
	)
	authEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teammatch_auth_events_total",
			Help: "Sign-in and sign-out events by provider and outcome",
		},
		[]string{"event", "provider", "success"},
	)
)

// Ledger transition labels.
const (
	TransitionApplied   = "applied"
	TransitionReapplied = "reapplied"
	TransitionWithdrawn = "withdrawn"
)

// PrometheusMiddleware records request duration labelled by route pattern, keeping cardinality
// independent of slugs and ids.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Observe(time.Since(start).Seconds())
	})
}

func RecordLedgerTransition(transition string) {
	ledgerTransitions.WithLabelValues(transition).Inc()
}

func RecordProjectEvent(event string) {
	projectEvents.WithLabelValues(event).Inc()
}

func RecordAuthEvent(event, provider string, success bool) {
	authEvents.WithLabelValues(event, provider, strconv.FormatBool(success)).Inc()
}
