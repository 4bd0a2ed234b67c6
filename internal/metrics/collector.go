package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Symbol outcomes recorded by the report service
const (
	OutcomeReported = "reported"
	OutcomeOmitted  = "omitted"
	OutcomeFailed   = "failed"
)

// Collector holds the Prometheus collectors for report runs and quote
// retrieval. Each Collector owns its registry.
type Collector struct {
	registry *prometheus.Registry

	symbolsTotal *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	cacheTotal   *prometheus.CounterVec
	runDuration  prometheus.Gauge
	seriesLength prometheus.Histogram
}

// NewCollector creates a collector backed by a fresh registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		symbolsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signals_symbols_total",
				Help: "Total number of symbols processed, by outcome",
			},
			[]string{"outcome"}, // "reported", "omitted" or "failed"
		),
		fetchLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signals_quote_fetch_seconds",
				Help:    "Quote retrieval latency in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"provider", "status"},
		),
		cacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signals_quote_cache_total",
				Help: "Quote cache lookups, by result",
			},
			[]string{"result"}, // "hit", "miss" or "error"
		),
		runDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "signals_last_run_duration_seconds",
				Help: "Duration of the most recent report run in seconds",
			},
		),
		seriesLength: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "signals_series_length",
				Help:    "Number of closing prices per retrieved series",
				Buckets: []float64{0, 1, 5, 30, 60, 125, 250, 500, 1000, 2500},
			},
		),
	}
}

// Registry returns the registry holding this collector's metrics
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveSymbol counts a processed symbol
func (c *Collector) ObserveSymbol(outcome string) {
	c.symbolsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records the latency of one quote retrieval
func (c *Collector) ObserveFetch(provider string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.fetchLatency.WithLabelValues(provider, status).Observe(d.Seconds())
}

// ObserveCache counts a cache lookup result
func (c *Collector) ObserveCache(result string) {
	c.cacheTotal.WithLabelValues(result).Inc()
}

// ObserveSeries records the length of a retrieved series
func (c *Collector) ObserveSeries(length int) {
	c.seriesLength.Observe(float64(length))
}

// ObserveRun records the duration of a full report run
func (c *Collector) ObserveRun(d time.Duration) {
	c.runDuration.Set(d.Seconds())
}

// Push sends all collected metrics to a Prometheus Pushgateway
func (c *Collector) Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(c.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
