package client

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/niksmo/good-goods/internal/core/domain"
)

// A Dimension names a filter field.
type Dimension int

const (
	DimTags Dimension = iota
	DimCategories
	DimCompanies
	DimPrice
)

// CacheKey identifies a page of a filter set. Equivalent filter sets
// produce the same key regardless of value order or duplicates.
func CacheKey(f domain.FilterSpec, page int) string {
	return f.Key() + "#" + strconv.Itoa(max(page, 1))
}

// ToQuery encodes the shareable part of f. The page is never written.
func ToQuery(f domain.FilterSpec) url.Values {
	return f.Values(false)
}

// FromQuery restores the filter set from the address bar. Any page
// parameter is ignored and the result starts on the first page.
func FromQuery(v url.Values) (domain.FilterSpec, error) {
	f, err := domain.FilterFromValues(v)
	if err != nil {
		return domain.FilterSpec{}, err
	}
	f.Page = 1
	return f, nil
}

// Toggle adds v to the dimension when absent and removes it when
// present. Price is single valued: toggling the active bucket clears it.
// The result starts on the first page.
func Toggle(f domain.FilterSpec, d Dimension, v string) domain.FilterSpec {
	f = f.Normalize()
	switch d {
	case DimTags:
		f.Tags = toggle(f.Tags, v)
	case DimCategories:
		f.Categories = toggle(f.Categories, v)
	case DimCompanies:
		f.Companies = toggle(f.Companies, v)
	case DimPrice:
		if f.Price == domain.PriceBucket(v) {
			f.Price = domain.PriceAny
		} else {
			f.Price = domain.PriceBucket(v)
		}
	}
	f.Page = 1
	return f.Normalize()
}

// ToggleCategory backs the "All <Category>" options.
func ToggleCategory(f domain.FilterSpec, c domain.Category) domain.FilterSpec {
	return Toggle(f, DimCategories, string(c))
}

func toggle(vs []string, v string) []string {
	if i := slices.Index(vs, v); i >= 0 {
		return slices.Delete(slices.Clone(vs), i, i+1)
	}
	return append(slices.Clone(vs), v)
}
