package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/good-goods/config"
	"github.com/niksmo/good-goods/internal/adapter/fetcher"
	"github.com/niksmo/good-goods/internal/adapter/kafka"
	"github.com/niksmo/good-goods/internal/adapter/metrics"
	"github.com/niksmo/good-goods/internal/adapter/source"
	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/service"
)

// An IngestApp runs the selected source adapters once and exits.
type IngestApp struct {
	ctx      context.Context
	cfg      config.Config
	store    catalogStore
	registry source.Registry
	producer *kafka.ItemsProducer
	ingestor service.Ingestor
}

func NewIngestApp(ctx context.Context, cfg config.Config) *IngestApp {
	app := &IngestApp{ctx: ctx, cfg: cfg}

	initLogger(cfg)
	app.initStore()
	app.initChangeFeed()
	app.initCoreService()

	return app
}

func (app *IngestApp) initStore() {
	const op = "IngestApp.initStore"

	store, err := openStore(app.ctx, app.cfg)
	if err != nil {
		fallDown(op, err)
	}
	app.store = store
}

func (app *IngestApp) initChangeFeed() {
	const op = "IngestApp.initChangeFeed"

	if !app.cfg.Broker.Enabled {
		return
	}

	sec, err := brokerSecurity(app.cfg)
	if err != nil {
		fallDown(op, err)
	}

	itemSerde, err := catalogItemSerde(app.ctx, app.cfg, sec)
	if err != nil {
		fallDown(op, err)
	}

	p, err := kafka.NewItemsProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.CatalogItems,
			sec,
		),
		kafka.ProducerEncoderOpt(itemSerde),
	)
	if err != nil {
		fallDown(op, err)
	}
	app.producer = &p
}

func (app *IngestApp) initCoreService() {
	const op = "IngestApp.initCoreService"

	f, err := fetcher.New(
		fetcher.UserAgentOpt(app.cfg.Scraper.UserAgent),
		fetcher.NavigationTimeoutOpt(app.cfg.Scraper.NavigationTimeout),
		fetcher.RateOpt(app.cfg.Scraper.RPS),
	)
	if err != nil {
		fallDown(op, err)
	}

	opts := []service.IngestorOpt{service.WithIngestObserver(metrics.New())}
	if app.producer != nil {
		opts = append(opts, service.WithPublisher(app.producer))
	}

	app.registry = sourceRegistry(app.cfg)
	app.ingestor = service.NewIngestor(f, app.store, opts...)
}

// Run ingests the sources named by tags, or the configured sources when
// tags is empty, or every known source when both are empty.
func (app *IngestApp) Run(tags []string) ([]domain.IngestReport, error) {
	const op = "IngestApp.Run"

	if len(tags) == 0 {
		tags = app.cfg.Scraper.Sources
	}

	adapters, err := app.registry.Select(tags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slog.Info("ingestion started", "op", op, "sources", len(adapters))
	reports, err := service.RunAll(app.ctx, app.ingestor, adapters)
	for _, r := range reports {
		slog.Info(
			"ingestion report",
			"op", op,
			"source", r.Source,
			"extracted", r.Extracted,
			"malformed", r.Malformed,
			"duplicates", r.Duplicates,
			"inserted", r.Inserted,
			"duration", r.Duration,
		)
	}
	if err != nil {
		return reports, fmt.Errorf("%s: %w", op, err)
	}
	return reports, nil
}

func (app *IngestApp) Close() {
	slog.Info("ingestion is closing...")

	if app.producer != nil {
		app.producer.Close()
	}
	app.store.Close()

	slog.Info("ingestion is closed")
}
