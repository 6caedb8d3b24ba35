package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
)

const DefaultPageSize = 16

var _ port.CatalogQuerier = (*Catalog)(nil)

type CatalogOpt func(*Catalog)

func WithPageSize(n int) CatalogOpt {
	return func(c *Catalog) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithQueryObserver(o port.QueryObserver) CatalogOpt {
	return func(c *Catalog) {
		c.observer = o
	}
}

// A Catalog serves filtered pages of the catalog. It holds no state
// besides its collaborators and is safe for concurrent use.
type Catalog struct {
	store    port.CatalogReader
	pageSize int
	observer port.QueryObserver
}

func NewCatalog(store port.CatalogReader, opts ...CatalogOpt) Catalog {
	c := Catalog{
		store:    store,
		pageSize: DefaultPageSize,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c Catalog) PageSize() int {
	return c.pageSize
}

// Query returns the page selected by f. On a store failure the page is
// empty and the error wraps [domain.ErrQueryStore].
func (c Catalog) Query(
	ctx context.Context, f domain.FilterSpec,
) (page domain.Page, err error) {
	const op = "Catalog.Query"

	defer func() {
		c.observer.ObserveQuery(page, err)
	}()

	f = f.Normalize()
	items, err := c.store.Find(ctx, f, f.Skip(c.pageSize), c.pageSize)
	if err != nil {
		return emptyPage(), fmt.Errorf(
			"%s: %w: %w", op, domain.ErrQueryStore, err,
		)
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}

	return domain.Page{
		Items:   items,
		HasMore: len(items) == c.pageSize,
	}, nil
}

// AvailableTags lists every tag of the unfiltered catalog in sorted order.
func (c Catalog) AvailableTags(ctx context.Context) ([]string, error) {
	const op = "Catalog.AvailableTags"

	tags, err := c.store.DistinctTags(ctx)
	if err != nil {
		return []string{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrQueryStore, err,
		)
	}
	tags = append([]string{}, tags...)
	slices.Sort(tags)
	return slices.Compact(tags), nil
}

// Initial loads the first unfiltered page, the catalog size and the
// available tags. Any failure degrades to an empty view.
func (c Catalog) Initial(ctx context.Context) domain.CatalogView {
	const op = "Catalog.Initial"
	log := slog.With("op", op)

	page, err := c.Query(ctx, domain.FilterSpec{Page: 1})
	if err != nil {
		log.Error("failed to load first page", "err", err)
		return emptyView()
	}

	total, err := c.store.Count(ctx, domain.FilterSpec{})
	if err != nil {
		log.Error("failed to count items", "err", err)
		return emptyView()
	}

	tags, err := c.AvailableTags(ctx)
	if err != nil {
		log.Error("failed to load available tags", "err", err)
		return emptyView()
	}

	return domain.CatalogView{
		Items:         page.Items,
		Total:         total,
		AvailableTags: tags,
	}
}

func emptyPage() domain.Page {
	return domain.Page{Items: []domain.CatalogItem{}}
}

func emptyView() domain.CatalogView {
	return domain.CatalogView{
		Items:         []domain.CatalogItem{},
		AvailableTags: []string{},
	}
}

type nopObserver struct{}

func (nopObserver) ObserveIngest(domain.IngestReport, error) {}

func (nopObserver) ObserveQuery(domain.Page, error) {}
