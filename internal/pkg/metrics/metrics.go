package metrics

import (
	"net/http"
	"strconv"
	"time"

	"harvesthaven/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so independent instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter           *prometheus.CounterVec
	RequestDurationHistogram *prometheus.HistogramVec
	StatusCodeCategory       *prometheus.CounterVec
	SubmissionTransitions    *prometheus.CounterVec
	ListingEvents            *prometheus.CounterVec
	FeedConnections          prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDurationHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		StatusCodeCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"category"},
		),
		SubmissionTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "submission_transitions_total",
				Help: "Submission workflow transitions by name and outcome",
			},
			[]string{"transition", "outcome"},
		),
		ListingEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listing_events_total",
				Help: "Listing store mutations by event type",
			},
			[]string{"type"},
		),
		FeedConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "listing_feed_connections",
				Help: "Open websocket connections on the listing change feed",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestCounter,
		m.RequestDurationHistogram,
		m.StatusCodeCategory,
		m.SubmissionTransitions,
		m.ListingEvents,
		m.FeedConnections,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records request count and latency, labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		m.RequestCounter.WithLabelValues(c.Request.Method, path, statusStr).Inc()
		m.RequestDurationHistogram.WithLabelValues(c.Request.Method, path, statusStr).Observe(time.Since(start).Seconds())
		if category := statusCategory(status); category != "" {
			m.StatusCodeCategory.WithLabelValues(category).Inc()
		}
	}
}

// ObserveTransition counts one submission workflow transition attempt.
func (m *Metrics) ObserveTransition(transition string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.SubmissionTransitions.WithLabelValues(transition, outcome).Inc()
}

// ObserveListingEvent is meant to be subscribed to the listing store broadcaster.
func (m *Metrics) ObserveListingEvent(ev domain.ListingEvent) {
	m.ListingEvents.WithLabelValues(string(ev.Type)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}
