package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the relief service.
type Metrics struct {
	AlertQueries       *prometheus.CounterVec
	ClassifierRuns     *prometheus.CounterVec
	Optimizations      *prometheus.CounterVec
	OptimizeDuration   prometheus.Histogram
	FormSubmissions    *prometheus.CounterVec
	FormRejections     *prometheus.CounterVec
	VolunteerSignups   prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
}

// New registers and returns metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AlertQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_alert_queries_total",
			Help: "Alert catalog queries by triage filter.",
		}, []string{"filter"}),
		ClassifierRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_classifier_runs_total",
			Help: "Classifier runs by outcome.",
		}, []string{"outcome"}),
		Optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_optimizations_total",
			Help: "Resource optimizations by result.",
		}, []string{"result"}),
		OptimizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "relief_optimize_duration_seconds",
			Help:    "Time from optimize request to ledger update.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 6), // 0.25s .. 8s
		}),
		FormSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_form_submissions_total",
			Help: "Wizard submissions by form kind and outcome.",
		}, []string{"form", "outcome"}),
		FormRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_form_rejections_total",
			Help: "Wizard steps rejected by validation, by form kind.",
		}, []string{"form"}),
		VolunteerSignups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relief_volunteer_signups_total",
			Help: "Volunteer task sign-ups.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "method", "code"}),
		HTTPRequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relief_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		m.AlertQueries,
		m.ClassifierRuns,
		m.Optimizations,
		m.OptimizeDuration,
		m.FormSubmissions,
		m.FormRejections,
		m.VolunteerSignups,
		m.HTTPRequests,
		m.HTTPRequestLatency,
	)
	return m
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
