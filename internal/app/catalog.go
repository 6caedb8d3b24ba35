package app

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/niksmo/good-goods/config"
	"github.com/niksmo/good-goods/internal/adapter/httphandler"
	"github.com/niksmo/good-goods/internal/adapter/kafka"
	"github.com/niksmo/good-goods/internal/adapter/metrics"
	"github.com/niksmo/good-goods/internal/core/service"
)

// A CatalogApp serves the catalog query surface and, with the broker
// enabled, keeps the company stats table of the change feed.
type CatalogApp struct {
	ctx     context.Context
	cfg     config.Config
	metrics *metrics.Metrics
	store   catalogStore
	catalog service.Catalog

	statsProc *kafka.CompanyStatsProcessor
	statsView *kafka.CompanyStatsView

	httpServer    httphandler.HTTPServer
	metricsServer httphandler.HTTPServer
}

func NewCatalogApp(ctx context.Context, cfg config.Config) *CatalogApp {
	app := &CatalogApp{ctx: ctx, cfg: cfg}

	initLogger(cfg)
	app.initStore()
	app.initCoreService()
	app.initChangeFeed()
	app.initInboundAdapters()

	return app
}

func (app *CatalogApp) initStore() {
	const op = "CatalogApp.initStore"

	store, err := openStore(app.ctx, app.cfg)
	if err != nil {
		fallDown(op, err)
	}
	app.store = store
}

func (app *CatalogApp) initCoreService() {
	app.metrics = metrics.New()
	app.catalog = service.NewCatalog(
		app.store,
		service.WithPageSize(app.cfg.PageSize),
		service.WithQueryObserver(app.metrics),
	)
}

func (app *CatalogApp) initChangeFeed() {
	const op = "CatalogApp.initChangeFeed"

	if !app.cfg.Broker.Enabled {
		return
	}

	sec, err := brokerSecurity(app.cfg)
	if err != nil {
		fallDown(op, err)
	}
	sec.ApplyGoka()

	itemSerde, err := catalogItemSerde(app.ctx, app.cfg, sec)
	if err != nil {
		fallDown(op, err)
	}

	seedBrokers := app.cfg.Broker.SeedBrokers
	group := app.cfg.Broker.Consumers.CompanyStatsGroup

	proc, err := kafka.NewCompanyStatsProc(
		seedBrokers, app.cfg.Broker.Topics.CatalogItems, group, itemSerde,
	)
	if err != nil {
		fallDown(op, err)
	}

	view, err := kafka.NewCompanyStatsView(seedBrokers, group)
	if err != nil {
		fallDown(op, err)
	}

	app.statsProc = proc
	app.statsView = view
}

func (app *CatalogApp) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.catalog)
	if app.statsView != nil {
		httphandler.RegisterCompanies(
			mux, app.statsView, companies(sourceRegistry(app.cfg)),
		)
	}

	handler := httphandler.Observe(mux, app.metrics)
	app.httpServer = httphandler.NewHTTPServer(
		"catalog", app.cfg.HTTPServerAddr, handler,
	)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", metrics.Handler())
	app.metricsServer = httphandler.NewHTTPServer(
		"metrics", app.cfg.MetricsAddr, metricsMux,
	)
}

func (app *CatalogApp) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.metricsServer.Run(stopFn)

	if app.statsProc != nil {
		var wg sync.WaitGroup
		wg.Add(1)
		go app.statsProc.Run(app.ctx, stopFn, &wg)
		go app.statsView.Run(app.ctx)
		wg.Wait()
	}

	slog.Info("catalog is running")
}

func (app *CatalogApp) Close(ctx context.Context) {
	slog.Info("catalog is closing...")

	app.httpServer.Close(ctx)
	app.metricsServer.Close(ctx)
	if app.statsProc != nil {
		app.statsProc.Close()
	}
	app.store.Close()

	slog.Info("catalog is closed")
}
