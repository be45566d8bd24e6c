package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus collectors for the HTTP surface. Each
// handler owns its own registry so tests can spin up handlers freely.
type metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	renderDuration  prometheus.Histogram
	detailsDuration prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projfile",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status.",
		}, []string{"route", "status"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "projfile",
			Name:      "render_duration_seconds",
			Help:      "Wall time spent rendering thumbnails.",
			Buckets:   prometheus.DefBuckets,
		}),
		detailsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "projfile",
			Name:      "details_duration_seconds",
			Help:      "Wall time spent extracting project details.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.requestsTotal, m.renderDuration, m.detailsDuration)
	return m
}
