package client_test

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/niksmo/good-goods/internal/client"
	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchPage(
	ctx context.Context, f domain.FilterSpec,
) (domain.Page, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.Page), args.Error(1)
}

func forPage(f domain.FilterSpec, page int) any {
	want := client.CacheKey(f, page)
	return mock.MatchedBy(func(got domain.FilterSpec) bool {
		return client.CacheKey(got, got.Page) == want
	})
}

func pageOf(prefix string, n int, hasMore bool) domain.Page {
	items := make([]domain.CatalogItem, n)
	for i := range items {
		items[i] = domain.CatalogItem{
			ID:   fmt.Sprintf("%s-%d", prefix, i),
			Name: fmt.Sprintf("%s item %d", prefix, i),
		}
	}
	return domain.Page{Items: items, HasMore: hasMore}
}

func ids(items []domain.CatalogItem) (out []string) {
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

var (
	recycled = domain.FilterSpec{Tags: []string{"Recycled"}}
	mens     = domain.FilterSpec{Tags: []string{"Men's"}}
)

func TestPagerSetFilters(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 1)).
		Return(pageOf("r1", 2, true), nil).Once()

	var location url.Values
	p, err := client.NewPager(fetcher, client.WithLocation(func(v url.Values) {
		location = v
	}))
	require.NoError(t, err)
	assert.Equal(t, client.Idle, p.State())

	require.NoError(t, p.SetFilters(t.Context(), recycled))

	assert.Equal(t, client.Loaded, p.State())
	assert.Equal(t, []string{"r1-0", "r1-1"}, ids(p.Items()))
	assert.Equal(t, 1, p.Filters().Page)
	assert.Equal(t, url.Values{"tags": {"Recycled"}}, location)
	fetcher.AssertExpectations(t)
}

func TestPagerLoadMore(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 1)).
		Return(pageOf("p1", 2, true), nil).Once()
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 2)).
		Return(pageOf("p2", 1, false), nil).Once()

	p, err := client.NewPager(fetcher)
	require.NoError(t, err)
	require.NoError(t, p.SetFilters(t.Context(), recycled))

	fetched, err := p.LoadMore(t.Context())
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, client.Exhausted, p.State())
	assert.Equal(t, []string{"p1-0", "p1-1", "p2-0"}, ids(p.Items()))

	assert.False(t, p.SentinelVisible(t.Context()))
	fetcher.AssertNumberOfCalls(t, "FetchPage", 2)
}

func TestPagerEmptyFirstPage(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchPage", mock.Anything, mock.Anything).
		Return(domain.Page{Items: []domain.CatalogItem{}}, nil).Once()

	p, err := client.NewPager(fetcher)
	require.NoError(t, err)
	require.NoError(t, p.SetFilters(t.Context(), mens))

	assert.Equal(t, client.Exhausted, p.State())
	assert.Empty(t, p.Items())
}

func TestPagerCacheHit(t *testing.T) {
	both := domain.FilterSpec{Tags: []string{"Recycled", "Men's"}}
	reordered := domain.FilterSpec{Tags: []string{"Men's", "Recycled", "Men's"}}

	fetcher := new(MockFetcher)
	fetcher.On("FetchPage", mock.Anything, forPage(both, 1)).
		Return(pageOf("b", 2, true), nil).Once()
	fetcher.On("FetchPage", mock.Anything, forPage(mens, 1)).
		Return(pageOf("m", 2, true), nil).Once()

	p, err := client.NewPager(fetcher)
	require.NoError(t, err)

	require.NoError(t, p.SetFilters(t.Context(), both))
	require.NoError(t, p.SetFilters(t.Context(), mens))
	require.NoError(t, p.SetFilters(t.Context(), reordered))

	assert.Equal(t, []string{"b-0", "b-1"}, ids(p.Items()))
	assert.Equal(t, client.Loaded, p.State())
	fetcher.AssertNumberOfCalls(t, "FetchPage", 2)
}

func TestPagerLoadMoreFailure(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 1)).
		Return(pageOf("p1", 2, true), nil).Once()
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 2)).
		Return(domain.Page{}, assert.AnError).Once()

	p, err := client.NewPager(fetcher)
	require.NoError(t, err)
	require.NoError(t, p.SetFilters(t.Context(), recycled))

	fetched, err := p.LoadMore(t.Context())
	assert.True(t, fetched)
	require.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, client.Exhausted, p.State())
	assert.Equal(t, []string{"p1-0", "p1-1"}, ids(p.Items()))

	fetched, err = p.LoadMore(t.Context())
	require.NoError(t, err)
	assert.False(t, fetched)
	fetcher.AssertNumberOfCalls(t, "FetchPage", 2)
}

func TestPagerFilterChangeClearsExhausted(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 1)).
		Return(pageOf("r", 1, false), nil).Once()
	fetcher.On("FetchPage", mock.Anything, forPage(mens, 1)).
		Return(pageOf("m", 2, true), nil).Once()

	p, err := client.NewPager(fetcher)
	require.NoError(t, err)

	require.NoError(t, p.SetFilters(t.Context(), recycled))
	assert.Equal(t, client.Exhausted, p.State())

	require.NoError(t, p.SetFilters(t.Context(), mens))
	assert.Equal(t, client.Loaded, p.State())
	assert.Equal(t, []string{"m-0", "m-1"}, ids(p.Items()))
}

func TestPagerDropsConcurrentTriggers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher := new(MockFetcher)
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 1)).
		Return(pageOf("p1", 2, true), nil).Once()
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 2)).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(pageOf("p2", 2, true), nil).Once()

	p, err := client.NewPager(fetcher)
	require.NoError(t, err)
	require.NoError(t, p.SetFilters(t.Context(), recycled))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = p.LoadMore(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("load more did not start")
	}

	assert.Equal(t, client.Fetching, p.State())
	assert.False(t, p.SentinelVisible(t.Context()))

	close(release)
	wg.Wait()

	assert.Equal(t, client.Loaded, p.State())
	assert.Len(t, p.Items(), 4)
	fetcher.AssertNumberOfCalls(t, "FetchPage", 2)
}

func TestPagerDiscardsStalePage(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher := new(MockFetcher)
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 1)).
		Return(pageOf("r1", 2, true), nil).Once()
	fetcher.On("FetchPage", mock.Anything, forPage(recycled, 2)).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(pageOf("r2", 2, true), nil).Once()
	fetcher.On("FetchPage", mock.Anything, forPage(mens, 1)).
		Return(pageOf("m1", 2, true), nil).Once()

	p, err := client.NewPager(fetcher)
	require.NoError(t, err)
	require.NoError(t, p.SetFilters(t.Context(), recycled))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.LoadMore(context.Background())
	}()
	<-started

	require.NoError(t, p.SetFilters(t.Context(), mens))
	close(release)
	<-done

	assert.Equal(t, []string{"m1-0", "m1-1"}, ids(p.Items()))
	assert.Equal(t, mens.Normalize().Tags, p.Filters().Tags)
	assert.Equal(t, client.Loaded, p.State())
}

func TestNewPagerInvalidCacheSize(t *testing.T) {
	_, err := client.NewPager(new(MockFetcher), client.WithCacheSize(0))
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "exhausted", client.Exhausted.String())
	assert.Equal(t, "State(9)", client.State(9).String())
}
