package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func testMetrics() *Metrics {
	return newMetrics(promauto.With(prometheus.NewRegistry()))
}

func TestObserveIngest(t *testing.T) {
	m := testMetrics()

	m.ObserveIngest(domain.IngestReport{
		Source: "patagonia", Extracted: 10, Malformed: 2, Inserted: 8,
		Duration: time.Second,
	}, nil)
	m.ObserveIngest(domain.IngestReport{Source: "patagonia"},
		fmt.Errorf("run: %w", domain.ErrNavigationTimeout))

	assert.InDelta(t, 1, testutil.ToFloat64(
		m.IngestRunsTotal.WithLabelValues("patagonia", OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		m.IngestRunsTotal.WithLabelValues("patagonia", OutcomeNavigationTimeout)), 0)
	assert.InDelta(t, 8, testutil.ToFloat64(
		m.IngestItemsTotal.WithLabelValues("patagonia", "inserted")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(
		m.IngestItemsTotal.WithLabelValues("patagonia", "malformed")), 0)
}

func TestObserveQuery(t *testing.T) {
	m := testMetrics()

	m.ObserveQuery(domain.Page{Items: make([]domain.CatalogItem, 16)}, nil)
	m.ObserveQuery(domain.Page{}, domain.ErrQueryStore)

	assert.InDelta(t, 1, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(OutcomeError)), 0)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeStoreWrite, outcome(&domain.StoreWriteError{Err: assert.AnError}))
	assert.Equal(t, OutcomeEmptyResult, outcome(domain.ErrEmptyResult))
	assert.Equal(t, OutcomeError, outcome(assert.AnError))
}

func TestObserveRequest(t *testing.T) {
	m := testMetrics()
	m.ObserveRequest("GET /v1/items", 200, 10*time.Millisecond)
	m.ObserveRequest("GET /v1/items", 200, 20*time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("GET /v1/items", "200")), 0)
}
