package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsHooks records every event as a Prometheus metric.
type MetricsHooks struct {
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	charts       prometheus.Counter
	chartCards   prometheus.Histogram
	chartTime    prometheus.Histogram
	cache        *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec
	inflight     prometheus.Gauge
	requests     *prometheus.CounterVec
	reqDuration  *prometheus.HistogramVec
}

// NewMetricsHooks creates the metrics and registers them with reg.
func NewMetricsHooks(reg prometheus.Registerer) (*MetricsHooks, error) {
	m := &MetricsHooks{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "originchart_catalog_loads_total",
			Help: "Catalog loads by outcome.",
		}, []string{"outcome"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "originchart_catalog_load_duration_seconds",
			Help:    "Duration of catalog loads.",
			Buckets: prometheus.DefBuckets,
		}),
		charts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "originchart_charts_total",
			Help: "Charts computed, cache misses only.",
		}),
		chartCards: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "originchart_chart_cards",
			Help:    "Cards per computed chart.",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		}),
		chartTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "originchart_chart_duration_seconds",
			Help:    "Duration of chart computations.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "originchart_cache_events_total",
			Help: "Cache hits, misses and sets by key type.",
		}, []string{"type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "originchart_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"type"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "originchart_http_requests_in_flight",
			Help: "Requests currently being served.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "originchart_http_requests_total",
			Help: "Requests served by route and status.",
		}, []string{"method", "route", "status"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "originchart_http_request_duration_seconds",
			Help:    "Duration of served requests by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{
		m.loads, m.loadDuration, m.charts, m.chartCards, m.chartTime,
		m.cache, m.cacheBytes, m.inflight, m.requests, m.reqDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsHooks) OnLoadStart(context.Context, string) {}

func (m *MetricsHooks) OnLoadComplete(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.loads.WithLabelValues(outcome).Inc()
	m.loadDuration.Observe(d.Seconds())
}

func (m *MetricsHooks) OnChartStart(context.Context, int, bool) {}

func (m *MetricsHooks) OnChartComplete(_ context.Context, cards, _ int, d time.Duration) {
	m.charts.Inc()
	m.chartCards.Observe(float64(cards))
	m.chartTime.Observe(d.Seconds())
}

func (m *MetricsHooks) OnCacheHit(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "hit").Inc()
}

func (m *MetricsHooks) OnCacheMiss(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "miss").Inc()
}

func (m *MetricsHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cache.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *MetricsHooks) OnRequest(context.Context, string, string) {
	m.inflight.Inc()
}

func (m *MetricsHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.inflight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var _ Hooks = (*MetricsHooks)(nil)
