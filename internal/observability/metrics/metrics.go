// Package metrics exposes Prometheus instruments for the invoice
// engine and the HTTP surface.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes application-level instruments. All record methods
// are nil-safe so callers never guard.
type Metrics struct {
	recomputes   *prometheus.CounterVec
	exports      *prometheus.CounterVec
	saves        *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers the instruments on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		recomputes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoiceable_recompute_total",
			Help: "Invoice recomputations by template.",
		}, []string{"template"}),
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoiceable_export_total",
			Help: "PDF exports by template and outcome.",
		}, []string{"template", "status"}),
		saves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoiceable_save_total",
			Help: "Remote save attempts by outcome.",
		}, []string{"status"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoiceable_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoiceable_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// NewDefault registers on the default Prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

func (m *Metrics) RecordRecompute(templateID string) {
	if m == nil {
		return
	}
	m.recomputes.WithLabelValues(strings.TrimSpace(templateID)).Inc()
}

func (m *Metrics) RecordExport(templateID string, success bool) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(strings.TrimSpace(templateID), outcome(success)).Inc()
}

func (m *Metrics) RecordSave(success bool) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// GinMiddleware records request counts and latency per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
