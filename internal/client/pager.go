// Package client drives infinite scroll over the catalog query surface.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/niksmo/good-goods/internal/core/domain"
)

const DefaultCacheSize = 1024

type State int

const (
	Idle State = iota
	Fetching
	Loaded
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Loaded:
		return "loaded"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// A Fetcher loads the page f.Page of the filter set.
type Fetcher interface {
	FetchPage(ctx context.Context, f domain.FilterSpec) (domain.Page, error)
}

type PagerOpt func(*pagerOpts)

type pagerOpts struct {
	cacheSize  int
	onLocation func(url.Values)
}

func WithCacheSize(n int) PagerOpt {
	return func(o *pagerOpts) {
		o.cacheSize = n
	}
}

// WithLocation reports the shareable query after every filter change.
func WithLocation(fn func(url.Values)) PagerOpt {
	return func(o *pagerOpts) {
		o.onLocation = fn
	}
}

// A Pager accumulates pages of a single filter set. It serves one
// consumer; load triggers arriving while a load is in flight are dropped.
type Pager struct {
	fetcher    Fetcher
	cache      *lru.Cache[string, domain.Page]
	onLocation func(url.Values)

	inFlight   atomic.Bool
	generation atomic.Uint64

	mu      sync.RWMutex
	state   State
	filters domain.FilterSpec
	page    int
	items   []domain.CatalogItem
}

func NewPager(fetcher Fetcher, opts ...PagerOpt) (*Pager, error) {
	const op = "client.NewPager"

	o := pagerOpts{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	cache, err := lru.New[string, domain.Page](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Pager{
		fetcher:    fetcher,
		cache:      cache,
		onLocation: o.onLocation,
		filters:    domain.FilterSpec{Page: 1},
	}, nil
}

func (p *Pager) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Pager) Filters() domain.FilterSpec {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filters
}

// Items returns a copy of the accumulated items.
func (p *Pager) Items() []domain.CatalogItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.items)
}

// SetFilters replaces the filter set and loads its first page. Items of
// the previous filter set are dropped and any load still running for it
// is discarded on arrival.
func (p *Pager) SetFilters(ctx context.Context, f domain.FilterSpec) error {
	const op = "Pager.SetFilters"

	f = f.Normalize()
	f.Page = 1

	p.mu.Lock()
	gen := p.generation.Add(1)
	p.filters = f
	p.page = 1
	p.items = nil
	p.state = Fetching
	p.mu.Unlock()

	if p.onLocation != nil {
		p.onLocation(ToQuery(f))
	}

	if err := p.load(ctx, gen, f, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LoadMore fetches the next page. It reports false when the trigger was
// dropped: a load is in flight, nothing is loaded yet or the filter set
// is exhausted.
func (p *Pager) LoadMore(ctx context.Context) (bool, error) {
	const op = "Pager.LoadMore"

	if !p.inFlight.CompareAndSwap(false, true) {
		return false, nil
	}
	defer p.inFlight.Store(false)

	p.mu.Lock()
	if p.state != Loaded {
		p.mu.Unlock()
		return false, nil
	}
	gen := p.generation.Load()
	f := p.filters
	f.Page = p.page + 1
	p.state = Fetching
	p.mu.Unlock()

	if err := p.load(ctx, gen, f, true); err != nil {
		return true, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// SentinelVisible is the fetch-ahead trigger of the rendered list.
func (p *Pager) SentinelVisible(ctx context.Context) bool {
	const op = "Pager.SentinelVisible"

	fetched, err := p.LoadMore(ctx)
	if err != nil {
		slog.Warn("failed to load next page", "op", op, "err", err)
	}
	return fetched
}

func (p *Pager) load(
	ctx context.Context, gen uint64, f domain.FilterSpec, appendItems bool,
) error {
	const op = "Pager.load"
	log := slog.With("op", op, "page", f.Page)

	page, err := p.fetch(ctx, f)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation.Load() {
		log.Debug("stale page discarded")
		return nil
	}

	if err != nil {
		p.state = Exhausted
		return err
	}

	if appendItems {
		p.items = append(p.items, page.Items...)
	} else {
		p.items = slices.Clone(page.Items)
	}
	p.page = f.Page

	if page.HasMore {
		p.state = Loaded
	} else {
		p.state = Exhausted
	}
	return nil
}

func (p *Pager) fetch(
	ctx context.Context, f domain.FilterSpec,
) (domain.Page, error) {
	key := CacheKey(f, f.Page)
	if page, ok := p.cache.Get(key); ok {
		return page, nil
	}

	page, err := p.fetcher.FetchPage(ctx, f)
	if err != nil {
		return domain.Page{}, err
	}
	p.cache.Add(key, page)
	return page, nil
}
