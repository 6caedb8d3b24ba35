// Package app wires the catalog and ingestion processes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/good-goods/config"
	"github.com/niksmo/good-goods/internal/adapter"
	"github.com/niksmo/good-goods/internal/adapter/kafka"
	"github.com/niksmo/good-goods/internal/adapter/memory"
	"github.com/niksmo/good-goods/internal/adapter/source"
	"github.com/niksmo/good-goods/internal/adapter/storage"
	"github.com/niksmo/good-goods/internal/core/port"
	"github.com/niksmo/good-goods/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type catalogStore interface {
	port.CatalogStore
	Close()
}

func initLogger(cfg config.Config) {
	level, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func openStore(ctx context.Context, cfg config.Config) (catalogStore, error) {
	const op = "app.openStore"

	if cfg.Store == config.StoreMemory {
		slog.Warn("using in-memory store, catalog is not persisted", "op", op)
		return memory.New(), nil
	}

	pool, err := storage.NewPool(ctx, cfg.SQLDB, cfg.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return postgresStore{storage.NewCatalogRepository(pool), pool}, nil
}

type postgresStore struct {
	storage.CatalogRepository
	pool storage.Pool
}

func (s postgresStore) Close() {
	s.pool.Close()
}

func sourceRegistry(cfg config.Config) source.Registry {
	return source.NewRegistry(source.Config{
		RevealCycles:   cfg.Scraper.RevealCycles,
		OverlayTimeout: cfg.Scraper.OverlayTimeout,
		ListingURLs:    cfg.Scraper.ListingURLs,
	})
}

// companies lists the retailer names of every known source.
func companies(r source.Registry) []string {
	adapters, _ := r.Select(nil)
	names := make([]string, 0, len(adapters))
	for _, a := range adapters {
		names = append(names, a.Source().Company)
	}
	return names
}

func brokerSecurity(cfg config.Config) (kafka.Security, error) {
	const op = "app.brokerSecurity"

	sec := kafka.Security{
		User: cfg.Broker.SASL.User,
		Pass: cfg.Broker.SASL.Pass,
	}
	if t := cfg.Broker.TLS; t.CA != "" {
		tlsCfg, err := adapter.MakeTLSConfig(t.CA, t.Cert, t.Key)
		if err != nil {
			return kafka.Security{}, fmt.Errorf("%s: %w", op, err)
		}
		sec.TLS = tlsCfg
	}
	return sec, nil
}

func catalogItemSerde(
	ctx context.Context, cfg config.Config, sec kafka.Security,
) (schema.Serde, error) {
	const op = "app.catalogItemSerde"

	opts := []sr.ClientOpt{sr.URLs(cfg.Broker.SchemaRegistryURLs...)}
	if sec.TLS != nil {
		opts = append(opts, sr.DialTLSConfig(sec.TLS))
	}
	if sec.User != "" {
		opts = append(opts, sr.BasicAuth(sec.User, sec.Pass))
	}

	srClient, err := sr.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subject := cfg.Broker.Topics.CatalogItems + "-value"
	serde, err := schema.NewSerdeCatalogItemV1(
		ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return serde, nil
}

func fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
