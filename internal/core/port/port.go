package port

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/niksmo/good-goods/internal/core/domain"
)

// A Session is an exclusive page fetcher session owned by a single run.
type Session interface {
	Navigate(ctx context.Context, url string) (*goquery.Document, error)
	Close() error
}

type PageFetcher interface {
	Open(ctx context.Context) (Session, error)
}

// A SourceAdapter extracts raw listings of a single retailer.
type SourceAdapter interface {
	Source() domain.Source
	FetchRawItems(ctx context.Context, s Session) (domain.RawBatch, error)
}

// A Classifier maps listing text to a category and tags.
type Classifier interface {
	Classify(name, rawCategory string) (domain.Category, []string)
}

// A CatalogWriter appends items to the catalog. Items whose link is
// already stored are skipped. InsertMany returns the items it stored.
type CatalogWriter interface {
	InsertMany(
		ctx context.Context, items []domain.CatalogItem,
	) ([]domain.CatalogItem, error)
}

type CatalogReader interface {
	Find(
		ctx context.Context, f domain.FilterSpec, skip, limit int,
	) ([]domain.CatalogItem, error)
	Count(ctx context.Context, f domain.FilterSpec) (int, error)
	DistinctTags(ctx context.Context) ([]string, error)
}

type CatalogStore interface {
	CatalogWriter
	CatalogReader
}

// An ItemsPublisher announces freshly stored items to the change feed.
type ItemsPublisher interface {
	PublishItems(ctx context.Context, items []domain.CatalogItem) error
}

type Ingestor interface {
	Run(ctx context.Context, a SourceAdapter) (domain.IngestReport, error)
}

type CatalogQuerier interface {
	Query(ctx context.Context, f domain.FilterSpec) (domain.Page, error)
	AvailableTags(ctx context.Context) ([]string, error)
	Initial(ctx context.Context) domain.CatalogView
}

type CompanyStatsReader interface {
	CompanyCounts(ctx context.Context, companies []string) (map[string]int64, error)
}

// An IngestObserver records ingestion outcomes.
type IngestObserver interface {
	ObserveIngest(report domain.IngestReport, err error)
}

type QueryObserver interface {
	ObserveQuery(page domain.Page, err error)
}
