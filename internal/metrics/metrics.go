package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	registry        *prometheus.Registry
	PipelineLoads   *prometheus.CounterVec
	PipelineSeconds prometheus.Histogram
	ChartRenders    *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
}

// New creates the metrics on a private registry so tests can build as many
// instances as they need.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		PipelineLoads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sdgdash_pipeline_loads_total",
			Help: "Clean-table loads by outcome (ok, not_found, error)",
		}, []string{"outcome"}),
		PipelineSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sdgdash_pipeline_duration_seconds",
			Help:    "Time spent reading and normalizing the raw source",
			Buckets: prometheus.DefBuckets,
		}),
		ChartRenders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sdgdash_chart_renders_total",
			Help: "Rendered charts by kind",
		}, []string{"chart"}),
		RequestSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sdgdash_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveLoad records one pipeline load.
func (m *Metrics) ObserveLoad(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineLoads.WithLabelValues(outcome).Inc()
	m.PipelineSeconds.Observe(d.Seconds())
}

// IncrementChartRenders counts one rendered chart.
func (m *Metrics) IncrementChartRenders(chart string) {
	if m == nil {
		return
	}
	m.ChartRenders.WithLabelValues(chart).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestSeconds.WithLabelValues(route, status).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
