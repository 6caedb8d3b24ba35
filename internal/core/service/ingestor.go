package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/good-goods/internal/core/classifier"
	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
	"golang.org/x/sync/errgroup"
)

var _ port.Ingestor = (*Ingestor)(nil)

type IngestorOpt func(*Ingestor)

// WithPublisher announces stored items to the change feed.
func WithPublisher(p port.ItemsPublisher) IngestorOpt {
	return func(i *Ingestor) {
		i.publisher = p
	}
}

// ClassifierFactory builds the classifier of a source from its
// condition tag.
type ClassifierFactory func(conditionTag string) port.Classifier

func WithClassifier(f ClassifierFactory) IngestorOpt {
	return func(i *Ingestor) {
		i.newClassifier = f
	}
}

func WithIngestObserver(o port.IngestObserver) IngestorOpt {
	return func(i *Ingestor) {
		i.observer = o
	}
}

// An Ingestor drives a single source adapter to completion and commits
// its classified items to the catalog in one bulk insert.
type Ingestor struct {
	fetcher       port.PageFetcher
	store         port.CatalogWriter
	publisher     port.ItemsPublisher
	observer      port.IngestObserver
	newClassifier ClassifierFactory
}

func NewIngestor(
	fetcher port.PageFetcher, store port.CatalogWriter, opts ...IngestorOpt,
) Ingestor {
	i := Ingestor{
		fetcher:       fetcher,
		store:         store,
		observer:      nopObserver{},
		newClassifier: defaultClassifier,
	}
	for _, opt := range opts {
		opt(&i)
	}
	return i
}

func (s Ingestor) Run(
	ctx context.Context, a port.SourceAdapter,
) (report domain.IngestReport, err error) {
	const op = "Ingestor.Run"

	src := a.Source()
	log := slog.With("op", op, "source", src.Tag)

	start := time.Now()
	report.Source = src.Tag
	defer func() {
		report.Duration = time.Since(start)
		s.observer.ObserveIngest(report, err)
	}()

	session, err := s.fetcher.Open(ctx)
	if err != nil {
		return report, fmt.Errorf("%s: failed to open session: %w", op, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Error("failed to close session", "err", err)
		}
	}()

	batch, err := a.FetchRawItems(ctx, session)
	report.Extracted = len(batch.Items) + batch.Malformed
	report.Malformed = batch.Malformed
	if err != nil {
		if errors.Is(err, domain.ErrEmptyResult) {
			log.Warn(
				"source returned no items, markup may have changed",
				"malformed", report.Malformed,
			)
		}
		return report, fmt.Errorf("%s: %w", op, err)
	}

	items := s.prepare(src, batch.Items, &report)
	if len(items) == 0 {
		log.Warn("no valid items to store", "extracted", report.Extracted)
		return report, fmt.Errorf("%s: %w", op, domain.ErrEmptyResult)
	}

	stored, err := s.store.InsertMany(ctx, items)
	if err != nil {
		log.Error("failed to store items", "attempted", len(items), "err", err)
		return report, fmt.Errorf(
			"%s: %w", op, &domain.StoreWriteError{Attempted: len(items), Err: err},
		)
	}
	report.Inserted = len(stored)

	s.publish(ctx, stored)

	log.Info(
		"source ingested",
		"extracted", report.Extracted,
		"malformed", report.Malformed,
		"duplicates", report.Duplicates,
		"inserted", report.Inserted,
	)
	return report, nil
}

// prepare validates, deduplicates by link and classifies raw items.
func (s Ingestor) prepare(
	src domain.Source, raws []domain.RawItem, report *domain.IngestReport,
) []domain.CatalogItem {
	const op = "Ingestor.prepare"
	log := slog.With("op", op, "source", src.Tag)

	c := s.newClassifier(src.ConditionTag)
	seen := make(map[string]struct{}, len(raws))
	items := make([]domain.CatalogItem, 0, len(raws))

	for _, r := range raws {
		if err := r.Validate(src.RequireCategory); err != nil {
			report.Malformed++
			log.Debug("item dropped", "name", r.Name, "err", err)
			continue
		}
		if _, ok := seen[r.Link]; ok {
			report.Duplicates++
			continue
		}
		seen[r.Link] = struct{}{}

		category, tags := c.Classify(r.Name, r.RawCategory)
		items = append(items, domain.CatalogItem{
			ID:          uuid.NewString(),
			Name:        r.Name,
			Price:       r.Price,
			RawCategory: r.RawCategory,
			Category:    category,
			ImageURL:    domain.NormalizeImageURL(r.ImageURL),
			Link:        r.Link,
			Company:     src.Company,
			Tags:        tags,
		})
	}
	return items
}

func defaultClassifier(conditionTag string) port.Classifier {
	return classifier.New(conditionTag)
}

func (s Ingestor) publish(ctx context.Context, items []domain.CatalogItem) {
	const op = "Ingestor.publish"

	if s.publisher == nil || len(items) == 0 {
		return
	}
	if err := s.publisher.PublishItems(ctx, items); err != nil {
		slog.Error("failed to publish items", "op", op, "err", err)
	}
}

// RunAll ingests distinct sources concurrently. A failed source does not
// stop the others and every failure is returned joined. An empty result
// is a warning, it is logged and left out of the returned error.
func RunAll(
	ctx context.Context, ing port.Ingestor, adapters []port.SourceAdapter,
) ([]domain.IngestReport, error) {
	const op = "service.RunAll"

	seen := make(map[string]struct{}, len(adapters))
	for _, a := range adapters {
		tag := a.Source().Tag
		if _, ok := seen[tag]; ok {
			return nil, fmt.Errorf("%s: %w: %q", op, domain.ErrDuplicateSource, tag)
		}
		seen[tag] = struct{}{}
	}

	reports := make([]domain.IngestReport, len(adapters))
	errs := make([]error, len(adapters))

	var g errgroup.Group
	for i, a := range adapters {
		g.Go(func() error {
			reports[i], errs[i] = ing.Run(ctx, a)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if errors.Is(err, domain.ErrEmptyResult) {
			slog.Warn(
				"source yielded no items",
				"op", op, "source", reports[i].Source, "err", err,
			)
			errs[i] = nil
		}
	}
	return reports, errors.Join(errs...)
}
