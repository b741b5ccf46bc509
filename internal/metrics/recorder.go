package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder records dashboard metrics into its own registry.
// A nil *Recorder is valid and records nothing (METRICS_ENABLED=false).
type Recorder struct {
	registry *prometheus.Registry

	refreshTotal    *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	watchlistSize   prometheus.Gauge
	fitFailures     *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a Recorder registering every collector on reg
func New(reg *prometheus.Registry) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		refreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fortunelab_refresh_total",
				Help: "Total number of artifact refresh cycles",
			},
			[]string{"result"},
		),
		refreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fortunelab_refresh_duration_seconds",
				Help:    "Duration of artifact refresh cycles in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		watchlistSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fortunelab_watchlist_size",
				Help: "Number of candidates in the current snapshot",
			},
		),
		fitFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fortunelab_valuation_fit_failures_total",
				Help: "Sectors whose PBR/ROE regression could not be fitted",
			},
			[]string{"reason"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fortunelab_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fortunelab_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route", "method", "class"},
		),
	}
}

// RecordRefresh records one refresh cycle
func (r *Recorder) RecordRefresh(result string, d time.Duration) {
	if r == nil {
		return
	}
	r.refreshTotal.WithLabelValues(result).Inc()
	r.refreshDuration.Observe(d.Seconds())
}

// SetWatchlistSize records the candidate count of the current snapshot
func (r *Recorder) SetWatchlistSize(n int) {
	if r == nil {
		return
	}
	r.watchlistSize.Set(float64(n))
}

// RecordFitFailure counts a sector whose fit failed
func (r *Recorder) RecordFitFailure(reason string) {
	if r == nil {
		return
	}
	r.fitFailures.WithLabelValues(reason).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
