package client_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/niksmo/good-goods/internal/adapter/httphandler"
	"github.com/niksmo/good-goods/internal/adapter/memory"
	"github.com/niksmo/good-goods/internal/client"
	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogServer(t *testing.T, n, pageSize int) *httptest.Server {
	t.Helper()

	store := memory.New()
	items := make([]domain.CatalogItem, n)
	for i := range items {
		items[i] = domain.CatalogItem{
			Name:     fmt.Sprintf("item-%02d", i),
			Price:    "$20",
			Category: domain.CategoryTops,
			ImageURL: "https://img.test/x.jpg",
			Link:     fmt.Sprintf("https://shop.test/%d", i),
			Company:  "Patagonia",
			Tags:     []string{"Recycled"},
		}
	}
	_, err := store.InsertMany(t.Context(), items)
	require.NoError(t, err)

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(
		mux, service.NewCatalog(store, service.WithPageSize(pageSize)),
	)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher(t *testing.T) {
	srv := newCatalogServer(t, 5, 2)
	f := client.NewHTTPFetcher(srv.URL+"/", srv.Client())

	page, err := f.FetchPage(t.Context(), domain.FilterSpec{
		Tags: []string{"Recycled"}, Page: 3,
	})
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "item-04", page.Items[0].Name)
	assert.NotEmpty(t, page.Items[0].ID)

	t.Run("InvalidFilter", func(t *testing.T) {
		_, err := f.FetchPage(t.Context(), domain.FilterSpec{Price: "free"})
		assert.ErrorIs(t, err, domain.ErrInvalidFilter)
	})

	t.Run("Unavailable", func(t *testing.T) {
		down := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		))
		defer down.Close()

		_, err := client.NewHTTPFetcher(down.URL, nil).
			FetchPage(t.Context(), domain.FilterSpec{})
		assert.ErrorIs(t, err, client.ErrUnavailable)
	})
}

func TestPagerOverHTTP(t *testing.T) {
	srv := newCatalogServer(t, 5, 2)

	p, err := client.NewPager(client.NewHTTPFetcher(srv.URL, srv.Client()))
	require.NoError(t, err)
	require.NoError(t, p.SetFilters(t.Context(), domain.FilterSpec{}))

	for p.SentinelVisible(t.Context()) {
	}

	assert.Equal(t, client.Exhausted, p.State())
	assert.Len(t, p.Items(), 5)
}
