package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
)

var _ port.CatalogStore = (*CatalogRepository)(nil)

type pgxDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// A CatalogRepository stores catalog items in PostgreSQL.
type CatalogRepository struct {
	db pgxDB
}

func NewCatalogRepository(db pgxDB) CatalogRepository {
	return CatalogRepository{db}
}

// InsertMany stores items in a single transaction. Items whose link is
// already stored are skipped and left out of the result.
func (r CatalogRepository) InsertMany(
	ctx context.Context, items []domain.CatalogItem,
) (stored []domain.CatalogItem, storeErr error) {
	const op = "CatalogRepository.InsertMany"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	batch := make([]domain.CatalogItem, len(items))
	b := &pgx.Batch{}
	for i, item := range items {
		amount, err := domain.ParsePrice(item.Price)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		batch[i] = item
		b.Queue(insertItemQuery,
			item.ID, item.Name, item.Price, amount.String(),
			item.RawCategory, string(item.Category), item.ImageURL,
			item.Link, item.Company, item.Tags,
		)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(ctx); err != nil {
				stored = nil
				storeErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(ctx); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	br := tx.SendBatch(ctx, b)
	stored = make([]domain.CatalogItem, 0, len(batch))
	for _, item := range batch {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("%s: failed to exec: %w", op, err)
		}
		if tag.RowsAffected() == 1 {
			stored = append(stored, item)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("%s: failed to close batch: %w", op, err)
	}

	return stored, nil
}

func (r CatalogRepository) Find(
	ctx context.Context, f domain.FilterSpec, skip, limit int,
) ([]domain.CatalogItem, error) {
	const op = "CatalogRepository.Find"

	query, args := buildFind(f, skip, limit)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (r CatalogRepository) Count(
	ctx context.Context, f domain.FilterSpec,
) (int, error) {
	const op = "CatalogRepository.Count"

	query, args := buildCount(f)
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (r CatalogRepository) DistinctTags(ctx context.Context) ([]string, error) {
	const op = "CatalogRepository.DistinctTags"

	rows, err := r.db.Query(ctx, distinctTagsQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tags, nil
}

func scanItem(row pgx.CollectableRow) (domain.CatalogItem, error) {
	var (
		v        domain.CatalogItem
		category string
	)
	err := row.Scan(
		&v.ID, &v.Name, &v.Price, &v.RawCategory, &category,
		&v.ImageURL, &v.Link, &v.Company, &v.Tags,
	)
	v.Category = domain.Category(category)
	return v, err
}
