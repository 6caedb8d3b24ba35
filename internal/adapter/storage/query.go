package storage

import (
	"fmt"
	"strings"

	"github.com/niksmo/good-goods/internal/core/domain"
)

const itemColumns = `id::text, name, price, raw_category, category,
	image_url, link, company, tags`

// A whereClause accumulates predicates with positional arguments.
type whereClause struct {
	preds []string
	args  []any
}

func (w *whereClause) add(pred string, arg any) {
	w.args = append(w.args, arg)
	w.preds = append(w.preds, fmt.Sprintf(pred, len(w.args)))
}

func (w whereClause) String() string {
	if len(w.preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.preds, " AND ")
}

func buildWhere(f domain.FilterSpec) whereClause {
	var w whereClause

	if len(f.Tags) != 0 {
		w.add("tags @> $%d::text[]", f.Tags)
	}
	if len(f.Categories) != 0 {
		w.add("category = ANY($%d::text[])", f.Categories)
	}
	if len(f.Companies) != 0 {
		w.add("company = ANY($%d::text[])", f.Companies)
	}
	if f.Price != domain.PriceAny {
		lo, hi := f.Price.Bounds()
		w.add("price_amount >= $%d::numeric", lo.String())
		if hi.Valid {
			w.add("price_amount < $%d::numeric", hi.Decimal.String())
		}
	}
	return w
}

// buildFind selects a page in insertion order.
func buildFind(f domain.FilterSpec, skip, limit int) (string, []any) {
	w := buildWhere(f)
	args := append(w.args, limit, skip)
	query := fmt.Sprintf(
		"SELECT %s FROM catalog_items%s ORDER BY seq ASC LIMIT $%d OFFSET $%d",
		itemColumns, w, len(args)-1, len(args),
	)
	return query, args
}

func buildCount(f domain.FilterSpec) (string, []any) {
	w := buildWhere(f)
	return "SELECT count(*) FROM catalog_items" + w.String(), w.args
}

const distinctTagsQuery = `
	SELECT DISTINCT tag
	FROM catalog_items, unnest(tags) AS tag
	ORDER BY tag ASC;`

const insertItemQuery = `
	INSERT INTO catalog_items (
		id, name, price, price_amount, raw_category,
		category, image_url, link, company, tags
	)
	VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (link) DO NOTHING;`
