// Package metrics exposes Prometheus metrics for the moderation service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all moderation Prometheus metrics.
type Metrics struct {
	// ReviewsTotal counts completed decisions by outcome (accepted,
	// declined).
	ReviewsTotal *prometheus.CounterVec
	// RejectedSelections counts review attempts blocked by the queue
	// membership / review-window policy.
	RejectedSelections prometheus.Counter
	// RequestDuration observes HTTP request latency.
	RequestDuration *prometheus.HistogramVec
}

// New initializes and registers the moderation metrics.
func New() *Metrics {
	return &Metrics{
		ReviewsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_reviews_total",
			Help: "Total novice application decisions by outcome",
		}, []string{"decision"}),

		RejectedSelections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moderation_rejected_selections_total",
			Help: "Review attempts rejected by the queue window policy",
		}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moderation_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route, and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware returns a gin middleware that records request latency.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
