package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/niksmo/good-goods/pkg/retry"
)

const defaultMaxConns = 8

// A Pool owns the database connections of the process.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects to dsn and waits for the database to answer.
func NewPool(ctx context.Context, dsn string, maxConns int32) (Pool, error) {
	const op = "storage.NewPool"
	log := slog.With("op", op)

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return Pool{}, fmt.Errorf("%s: failed to parse dsn: %w", op, err)
	}
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return Pool{}, fmt.Errorf("%s: %w", op, err)
	}

	retryCfg := retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
	}
	if err := retry.Do(ctx, retryCfg, func() error {
		return pool.Ping(ctx)
	}); err != nil {
		pool.Close()
		return Pool{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}

	log.Info("database is available")
	return Pool{pool}, nil
}

func (p Pool) Close() {
	const op = "Pool.Close"
	log := slog.With("op", op)

	log.Info("closing database pool...")
	p.Pool.Close()
	log.Info("database pool is closed")
}
