package storage

import (
	"testing"

	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildFind(t *testing.T) {
	t.Run("NoFilter", func(t *testing.T) {
		query, args := buildFind(domain.FilterSpec{}, 32, 16)
		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY seq ASC LIMIT $1 OFFSET $2")
		assert.Equal(t, []any{16, 32}, args)
	})

	t.Run("AllDimensions", func(t *testing.T) {
		f := domain.FilterSpec{
			Tags:       []string{"Men's", "Recycled"},
			Categories: []string{"Tops"},
			Companies:  []string{"Patagonia", "MadeTrade"},
			Price:      domain.Price50to100,
		}
		query, args := buildFind(f, 0, 16)

		assert.Contains(t, query, "tags @> $1::text[]")
		assert.Contains(t, query, "category = ANY($2::text[])")
		assert.Contains(t, query, "company = ANY($3::text[])")
		assert.Contains(t, query, "price_amount >= $4::numeric")
		assert.Contains(t, query, "price_amount < $5::numeric")
		assert.Contains(t, query, "LIMIT $6 OFFSET $7")
		assert.Equal(t, []any{
			[]string{"Men's", "Recycled"},
			[]string{"Tops"},
			[]string{"Patagonia", "MadeTrade"},
			"50", "100", 16, 0,
		}, args)
	})

	t.Run("OpenEndedBucket", func(t *testing.T) {
		query, args := buildFind(domain.FilterSpec{Price: domain.PriceMore500}, 0, 16)
		assert.Contains(t, query, "price_amount >= $1::numeric")
		assert.NotContains(t, query, "price_amount <")
		assert.Equal(t, []any{"500", 16, 0}, args)
	})
}

func TestBuildCount(t *testing.T) {
	query, args := buildCount(domain.FilterSpec{Companies: []string{"Outerknown"}})
	assert.Equal(t,
		"SELECT count(*) FROM catalog_items WHERE company = ANY($1::text[])",
		query,
	)
	assert.Equal(t, []any{[]string{"Outerknown"}}, args)

	query, args = buildCount(domain.FilterSpec{})
	assert.Equal(t, "SELECT count(*) FROM catalog_items", query)
	assert.Empty(t, args)
}
