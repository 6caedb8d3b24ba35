// Package metrics exposes ingestion and query metrics to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	_ port.IngestObserver = (*Metrics)(nil)
	_ port.QueryObserver  = (*Metrics)(nil)
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Outcome label values.
const (
	OutcomeOK                = "ok"
	OutcomeEmptyResult       = "empty_result"
	OutcomeNavigationTimeout = "navigation_timeout"
	OutcomeStoreWrite        = "store_write_failure"
	OutcomeError             = "error"
)

type Metrics struct {
	IngestRunsTotal     *prometheus.CounterVec
	IngestItemsTotal    *prometheus.CounterVec
	IngestDuration      *prometheus.HistogramVec
	QueriesTotal        *prometheus.CounterVec
	QueryItemsReturned  prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the metrics once per process and returns them.
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = newMetrics(promauto.With(prometheus.DefaultRegisterer))
	})
	return globalMetrics
}

func newMetrics(f promauto.Factory) *Metrics {
	return &Metrics{
		IngestRunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goods_ingest_runs_total",
				Help: "Ingestion runs by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		IngestItemsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goods_ingest_items_total",
				Help: "Items seen by ingestion by source and stage",
			},
			[]string{"source", "stage"},
		),
		IngestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goods_ingest_duration_seconds",
				Help:    "Duration of ingestion runs",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"source"},
		),
		QueriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goods_catalog_queries_total",
				Help: "Catalog queries by outcome",
			},
			[]string{"outcome"},
		),
		QueryItemsReturned: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "goods_catalog_query_items",
				Help:    "Items returned per catalog page",
				Buckets: prometheus.LinearBuckets(0, 4, 5),
			},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goods_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goods_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

func (m *Metrics) ObserveIngest(r domain.IngestReport, err error) {
	m.IngestRunsTotal.WithLabelValues(r.Source, outcome(err)).Inc()
	m.IngestDuration.WithLabelValues(r.Source).Observe(r.Duration.Seconds())

	items := m.IngestItemsTotal
	items.WithLabelValues(r.Source, "extracted").Add(float64(r.Extracted))
	items.WithLabelValues(r.Source, "malformed").Add(float64(r.Malformed))
	items.WithLabelValues(r.Source, "duplicate").Add(float64(r.Duplicates))
	items.WithLabelValues(r.Source, "inserted").Add(float64(r.Inserted))
}

func (m *Metrics) ObserveQuery(p domain.Page, err error) {
	m.QueriesTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.QueryItemsReturned.Observe(float64(len(p.Items)))
	}
}

func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrEmptyResult):
		return OutcomeEmptyResult
	case errors.Is(err, domain.ErrNavigationTimeout):
		return OutcomeNavigationTimeout
	case errors.Is(err, domain.ErrStoreWrite):
		return OutcomeStoreWrite
	default:
		return OutcomeError
	}
}
